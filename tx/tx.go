package tx

import (
	"encoding/json"
	"math/big"

	"github.com/curatenet/datamarket/types"
)

// Tx is the signed envelope every mutating ledger operation travels in.
// The sender is identified by its ed25519 pubkey; the signature covers the
// JSON encoding of the envelope with the chain id substituted for the
// signature list.
type Tx struct {
	Version uint8          `json:"version"`
	Type    TxType         `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Pubkey  types.HexBytes `json:"pubkey"`
	Tx      any            `json:"tx"`
	Sig     [][]byte       `json:"sig"`
}

type DepositTx struct {
	Amount *big.Int `json:"amount"`
}

type UploadDatasetTx struct {
	Locator            string   `json:"locator"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	MimeType           string   `json:"mimeType"`
	Size               uint64   `json:"size"`
	Category           string   `json:"category"`
	Price              *big.Int `json:"price"`
	ContributionReward *big.Int `json:"contributionReward"`
	VerificationReward *big.Int `json:"verificationReward"`
	RewardPool         *big.Int `json:"rewardPool"`
}

type ProposeContributionTx struct {
	Dataset     uint64                 `json:"dataset"`
	Locator     string                 `json:"locator"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        types.ContributionType `json:"contributionType"`
}

type VoteTx struct {
	Proposal uint64 `json:"proposal"`
	Approve  bool   `json:"approve"`
}

type ResolveTx struct {
	Proposal uint64 `json:"proposal"`
}

type StakeTx struct {
	Amount *big.Int `json:"amount"`
}

type UnstakeTx struct{}

type PurchaseTx struct {
	Dataset uint64 `json:"dataset"`
}

type ClaimTx struct{}

type FavoriteTx struct {
	Dataset uint64 `json:"dataset"`
}

type txTmpl[T any] struct {
	Version uint8          `json:"version"`
	Type    TxType         `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Pubkey  types.HexBytes `json:"pubkey"`
	Tx      T              `json:"tx"`
	Sig     [][]byte       `json:"sig"`
}

// SigData returns the bytes a sender signs: the envelope with the signature
// list replaced by the chain id.
func (tx *Tx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseTxType(dat []byte) TxType {
	var tx struct {
		Type TxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return TxTypeUnknown
	}
	return tx.Type
}

func unmarshalTx[T any](dat []byte) (btx *Tx, err error) {
	var txt txTmpl[T]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	btx = new(Tx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Pubkey = txt.Pubkey
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalTx(dat []byte) (btx *Tx, err error) {
	tp := parseTxType(dat)
	switch tp {
	case TxTypeDeposit:
		return unmarshalTx[DepositTx](dat)
	case TxTypeUpload:
		return unmarshalTx[UploadDatasetTx](dat)
	case TxTypePropose:
		return unmarshalTx[ProposeContributionTx](dat)
	case TxTypeVote:
		return unmarshalTx[VoteTx](dat)
	case TxTypeResolve:
		return unmarshalTx[ResolveTx](dat)
	case TxTypeStake:
		return unmarshalTx[StakeTx](dat)
	case TxTypeUnstake:
		return unmarshalTx[UnstakeTx](dat)
	case TxTypePurchase:
		return unmarshalTx[PurchaseTx](dat)
	case TxTypeClaim:
		return unmarshalTx[ClaimTx](dat)
	case TxTypeFavorite:
		return unmarshalTx[FavoriteTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalTx(btx *Tx) (dat []byte, err error) {
	return json.Marshal(btx)
}
