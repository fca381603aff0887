package state

import (
	"math/big"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// Deposit credits external funding to the sender's spendable balance. The
// funding source itself (token bridge, faucet) lives outside the ledger.
func (s *State) Deposit(wtx *tx.DepositTx, sender uint64, checkOnly bool) (event *types.EventDeposit, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if wtx.Amount == nil || wtx.Amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if !checkOnly {
		a.Credit(wtx.Amount)
		s.bumpNonce(a)
		event = &types.EventDeposit{
			Account: a.Index,
			Address: a.Address(),
			Amount:  new(big.Int).Set(wtx.Amount),
		}
	}
	return
}

// Claim atomically moves the whole withdrawable balance to the spendable
// balance and returns the claimed amount.
func (s *State) Claim(sender uint64, checkOnly bool) (event *types.EventClaim, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a.Withdrawable.Sign() == 0 {
		return nil, ErrNothingToClaim
	}
	if !checkOnly {
		claimed := new(big.Int).Set(a.Withdrawable)
		a.Balance.Add(a.Balance, claimed)
		a.Withdrawable.SetInt64(0)
		s.bumpNonce(a)
		event = &types.EventClaim{
			Account: a.Index,
			Address: a.Address(),
			Amount:  claimed,
		}
	}
	return
}
