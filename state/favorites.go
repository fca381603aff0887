package state

import (
	"encoding/json"
	"fmt"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/syndtr/goleveldb/leveldb"
)

// ToggleFavorite flips a dataset's membership in the sender's favourites set
// and returns whether it is marked afterwards.
func (s *State) ToggleFavorite(wtx *tx.FavoriteTx, sender uint64, checkOnly bool) (event *types.EventFavorite, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if _, err = s.GetDataset(wtx.Dataset); err != nil {
		return nil, err
	}
	if checkOnly {
		return nil, nil
	}
	addr := a.Address()
	set, err := s.loadFavorites(addr)
	if err != nil {
		return nil, err
	}
	marked := !set[wtx.Dataset]
	if marked {
		set[wtx.Dataset] = true
	} else {
		delete(set, wtx.Dataset)
	}
	s.favorites[addr] = set
	s.modifiedFavs[addr] = true
	s.bumpNonce(a)
	event = &types.EventFavorite{
		Dataset: wtx.Dataset,
		Account: a.Index,
		Address: addr,
		Marked:  marked,
	}
	return
}

// FavoritesOf returns the sender's favourite dataset ids in ascending order.
func (s *State) FavoritesOf(addr string) ([]uint64, error) {
	set, err := s.loadFavorites(addr)
	if err != nil {
		return nil, err
	}
	return sortedKeys(set), nil
}

func (s *State) IsFavorite(addr string, dataset uint64) (bool, error) {
	set, err := s.loadFavorites(addr)
	if err != nil {
		return false, err
	}
	return set[dataset], nil
}

func (s *State) loadFavorites(addr string) (map[uint64]bool, error) {
	if set, ok := s.favorites[addr]; ok {
		return set, nil
	}
	set := make(map[uint64]bool)
	key := fmt.Sprintf(KeyFavorites, addr)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err != leveldb.ErrNotFound {
			return nil, err
		}
	}
	if val != nil {
		var ids []uint64
		if err := json.Unmarshal(val, &ids); err != nil {
			return nil, err
		}
		for _, id := range ids {
			set[id] = true
		}
	}
	s.favorites[addr] = set
	return set, nil
}
