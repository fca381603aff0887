package state

import (
	"math/big"
	"sort"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// PurchaseDataset charges the buyer the listed price and splits it across the
// share table pro rata. Each holder receives floor(price*shares/total) into
// withdrawable earnings; the integer remainder goes to the creator so the
// split always sums to exactly the price paid.
func (s *State) PurchaseDataset(wtx *tx.PurchaseTx, sender uint64, checkOnly bool) (event *types.EventPurchase, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	ds, err := s.GetDataset(wtx.Dataset)
	if err != nil {
		return nil, err
	}
	if a.Balance.Cmp(ds.Price) < 0 {
		return nil, ErrInsufficientFunds
	}
	if checkOnly {
		return nil, nil
	}
	if err = a.Debit(ds.Price); err != nil {
		return nil, err
	}
	s.touchAccount(a)

	addrs := make([]string, 0, len(ds.Shares))
	for addr := range ds.Shares {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	total := new(big.Int).SetUint64(ds.TotalShares)
	paid := new(big.Int)
	for _, addr := range addrs {
		cut := new(big.Int).Mul(ds.Price, new(big.Int).SetUint64(ds.Shares[addr]))
		cut.Div(cut, total)
		holder, err := s.FindAccount(addr)
		if err != nil {
			return nil, err
		}
		if holder == nil {
			return nil, ErrAccountNotFound
		}
		holder.Reward(cut)
		s.touchAccount(holder)
		paid.Add(paid, cut)
	}
	if rem := new(big.Int).Sub(ds.Price, paid); rem.Sign() > 0 {
		creator, err := s.FindAccount(ds.CreatorAddress)
		if err != nil {
			return nil, err
		}
		if creator == nil {
			return nil, ErrAccountNotFound
		}
		creator.Reward(rem)
		s.touchAccount(creator)
	}

	ds.TotalPurchases += 1
	s.touchDataset(ds)

	// The buyer may hold shares in the dataset it just bought.
	a, err = s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	s.bumpNonce(a)
	event = &types.EventPurchase{
		Dataset:      ds.Id,
		Buyer:        a.Index,
		BuyerAddress: a.Address(),
		Price:        new(big.Int).Set(ds.Price),
	}
	return
}
