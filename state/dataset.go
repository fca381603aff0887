package state

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// UploadDataset registers a new dataset. The reward pool is funded up front
// from the creator's spendable balance; the creator starts with the whole
// share table.
func (s *State) UploadDataset(wtx *tx.UploadDatasetTx, sender uint64, checkOnly bool) (event *types.EventUpload, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if wtx.Title == "" {
		return nil, ErrEmptyTitle
	}
	if wtx.Locator == "" {
		return nil, ErrEmptyLocator
	}
	if wtx.Price == nil || wtx.Price.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if wtx.RewardPool == nil || wtx.RewardPool.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if wtx.ContributionReward == nil || wtx.ContributionReward.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if wtx.VerificationReward == nil || wtx.VerificationReward.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if a.Balance.Cmp(wtx.RewardPool) < 0 {
		return nil, ErrInsufficientFunds
	}
	if !checkOnly {
		if err = a.Debit(wtx.RewardPool); err != nil {
			return nil, err
		}
		s.datasetMaxIndex += 1
		addr := a.Address()
		ds := &types.Dataset{
			Id:                 s.datasetMaxIndex,
			Creator:            a.Index,
			CreatorAddress:     addr,
			Locator:            wtx.Locator,
			Price:              new(big.Int).Set(wtx.Price),
			Title:              wtx.Title,
			Description:        wtx.Description,
			MimeType:           wtx.MimeType,
			Size:               wtx.Size,
			Category:           wtx.Category,
			CreatedAt:          s.header.Time,
			ContributionReward: new(big.Int).Set(wtx.ContributionReward),
			VerificationReward: new(big.Int).Set(wtx.VerificationReward),
			RewardPool:         new(big.Int).Set(wtx.RewardPool),
			TotalShares:        types.CreatorInitialShares,
			Shares:             map[string]uint64{addr: types.CreatorInitialShares},
		}
		s.datasets[ds.Id] = ds
		s.modifiedDatasets[ds.Id] = true
		s.bumpNonce(a)
		event = &types.EventUpload{
			Dataset:        ds.Id,
			Creator:        a.Index,
			CreatorAddress: addr,
			Title:          ds.Title,
			Price:          new(big.Int).Set(ds.Price),
			RewardPool:     new(big.Int).Set(ds.RewardPool),
		}
	}
	return
}

func (s *State) GetDataset(id uint64) (ds *types.Dataset, err error) {
	if id == 0 || id > s.datasetMaxIndex {
		return nil, ErrDatasetNotFound
	}
	if ds = s.datasets[id]; ds != nil {
		return
	}
	key := fmt.Sprintf(KeyDatasetBody, id)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrDatasetNotFound
	}
	ds = new(types.Dataset)
	err = json.Unmarshal(val, ds)
	if err != nil {
		return nil, err
	}
	s.datasets[id] = ds
	return
}

func (s *State) DatasetMax() uint64 {
	return s.datasetMaxIndex
}

// Datasets returns every registered dataset in id order.
func (s *State) Datasets() (list []*types.Dataset, err error) {
	list = make([]*types.Dataset, 0, s.datasetMaxIndex)
	for id := uint64(1); id <= s.datasetMaxIndex; id++ {
		ds, err := s.GetDataset(id)
		if err != nil {
			return nil, err
		}
		list = append(list, ds)
	}
	return
}

func (s *State) touchDataset(ds *types.Dataset) {
	s.datasets[ds.Id] = ds
	s.modifiedDatasets[ds.Id] = true
}
