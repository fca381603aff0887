package state

import (
	"math/big"

	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/curatenet/datamarket/types"
)

// Account is one participant's ledger row: spendable balance, locked stake
// and withdrawable (claimable) earnings, all in base token units.
type Account struct {
	Index        uint64         `json:"index"`
	PubKey       types.HexBytes `json:"pub_key"`
	Name         string         `json:"name,omitempty"`
	Balance      *big.Int       `json:"balance"`
	Stake        *big.Int       `json:"stake"`
	Withdrawable *big.Int       `json:"withdrawable"`
	Nonce        uint64         `json:"nonce"`

	// OpenVotes counts votes on proposals not yet resolved; stake stays
	// locked while it is non-zero.
	OpenVotes uint64 `json:"open_votes"`
}

func NewAccount(pubkey []byte) *Account {
	a := &Account{
		Balance:      new(big.Int),
		Stake:        new(big.Int),
		Withdrawable: new(big.Int),
	}
	a.SetPubKey(pubkey)
	return a
}

func (a *Account) Clone() *Account {
	n := &Account{
		Index:        a.Index,
		Name:         a.Name,
		Nonce:        a.Nonce,
		OpenVotes:    a.OpenVotes,
		Balance:      new(big.Int).Set(a.Balance),
		Stake:        new(big.Int).Set(a.Stake),
		Withdrawable: new(big.Int).Set(a.Withdrawable),
	}
	n.SetPubKey(a.PubKey)
	return n
}

func (a *Account) SetPubKey(pkey []byte) {
	a.PubKey = make([]byte, len(pkey))
	copy(a.PubKey, pkey)
}

func (a *Account) AddrBytes() []byte {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address()[:]
}

func (a *Account) Address() string {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address().String()
}

func (a *Account) Verify(msg []byte, sigs [][]byte) (succ bool) {
	if len(sigs) != 1 {
		return false
	}
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.VerifySignature(msg, sigs[0])
}

// IsVerifier is derived, never stored: staked at or above the minimum.
func (a *Account) IsVerifier() bool {
	return a.Stake.Cmp(types.MinimumStake()) >= 0
}

// Debit removes amount from the spendable balance, rejecting overdrafts
// before any mutation.
func (a *Account) Debit(amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if a.Balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	a.Balance.Sub(a.Balance, amount)
	return nil
}

func (a *Account) Credit(amount *big.Int) {
	a.Balance.Add(a.Balance, amount)
}

// Reward adds to the withdrawable balance; only Claim moves it to spendable.
func (a *Account) Reward(amount *big.Int) {
	a.Withdrawable.Add(a.Withdrawable, amount)
}
