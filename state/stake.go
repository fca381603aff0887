package state

import (
	"math/big"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// Stake moves tokens from the spendable balance into the verifier stake.
// Repeated calls accumulate; the cumulative stake must clear the minimum or
// the whole call is rejected.
func (s *State) Stake(wtx *tx.StakeTx, sender uint64, checkOnly bool) (event *types.EventStake, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if wtx.Amount == nil || wtx.Amount.Sign() <= 0 {
		return nil, ErrNegativeAmount
	}
	if a.Balance.Cmp(wtx.Amount) < 0 {
		return nil, ErrInsufficientFunds
	}
	total := new(big.Int).Add(a.Stake, wtx.Amount)
	if total.Cmp(types.MinimumStake()) < 0 {
		return nil, ErrBelowMinimumStake
	}
	if !checkOnly {
		if err = a.Debit(wtx.Amount); err != nil {
			return nil, err
		}
		a.Stake.Set(total)
		s.bumpNonce(a)
		event = &types.EventStake{
			Account: a.Index,
			Address: a.Address(),
			Amount:  new(big.Int).Set(wtx.Amount),
			Total:   new(big.Int).Set(total),
		}
	}
	return
}

// Unstake returns the entire stake to the spendable balance. Blocked while
// the verifier has votes on unresolved proposals, so the stake stays
// slashable for pending outcomes.
func (s *State) Unstake(sender uint64, checkOnly bool) (event *types.EventUnstake, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a.Stake.Sign() == 0 {
		return nil, ErrNotAVerifier
	}
	if a.OpenVotes > 0 {
		return nil, ErrActiveVoteObligation
	}
	if !checkOnly {
		amount := new(big.Int).Set(a.Stake)
		a.Balance.Add(a.Balance, amount)
		a.Stake.SetInt64(0)
		s.bumpNonce(a)
		event = &types.EventUnstake{
			Account: a.Index,
			Address: a.Address(),
			Amount:  amount,
		}
	}
	return
}
