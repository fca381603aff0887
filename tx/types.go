package tx

import "errors"

type TxType uint8

const (
	TxTypeUnknown  TxType = 0
	TxTypeDeposit  TxType = 1
	TxTypeUpload   TxType = 2
	TxTypePropose  TxType = 3
	TxTypeVote     TxType = 4
	TxTypeResolve  TxType = 5
	TxTypeStake    TxType = 6
	TxTypeUnstake  TxType = 7
	TxTypePurchase TxType = 8
	TxTypeClaim    TxType = 9
	TxTypeFavorite TxType = 10
)

const (
	TxVersion0 uint8 = 0
	TxVersion1 uint8 = 1
)

var (
	ErrInvalidTx         = errors.New("invalid tx")
	ErrUnsupportedTxType = errors.New("unsupported tx type")
	ErrUnmatchedTxType   = errors.New("unmatched tx type")
	ErrUnsupportedTxVer  = errors.New("unsupported tx version")
)

func (t TxType) String() string {
	switch t {
	case TxTypeDeposit:
		return "deposit"
	case TxTypeUpload:
		return "uploadDataset"
	case TxTypePropose:
		return "proposeContribution"
	case TxTypeVote:
		return "voteOnContribution"
	case TxTypeResolve:
		return "resolveContribution"
	case TxTypeStake:
		return "stakeToVerify"
	case TxTypeUnstake:
		return "unstake"
	case TxTypePurchase:
		return "purchaseDataset"
	case TxTypeClaim:
		return "claimRewards"
	case TxTypeFavorite:
		return "toggleFavourite"
	default:
		return "unknown"
	}
}
