package state

import (
	"sync"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/ethereum/go-ethereum/common"
)

// StateDB guards the committed state behind a RWMutex. The executor stages
// writes on a child State and commits it through Commit; readers see only
// committed versions. Read views take the write lock because the State
// getters fill their record caches on a miss.
type StateDB struct {
	mtx sync.RWMutex

	dir    string
	logger cmtlog.Logger
	db     *iavl.MutableTree

	state *State
}

func NewStateDB(dir string, logger cmtlog.Logger) (db *StateDB, err error) {
	logger = logger.With("module", "ledgerdb")
	ldb, err := dbm.NewDB("datamarket", "goleveldb", dir)
	if err != nil {
		return nil, err
	}
	tdb := iavl.NewMutableTree(ldb, 128, true, newTreeLogger(logger))
	version, err := tdb.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("load db success", "version", version)
	st := newState(tdb, logger)
	err = st.load()
	if err != nil {
		logger.Error("load state fail", "err", err)
		return nil, err
	}
	db = &StateDB{
		dir:    dir,
		logger: logger,
		db:     tdb,
		state:  st,
	}
	return
}

func (db *StateDB) Close() (err error) {
	err = db.db.Close()
	return
}

func (db *StateDB) Header() (header *Header) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	header = db.state.Header()
	return
}

func (db *StateDB) NewState() (st *State) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	st = db.state.nextState()
	return
}

// Commit flushes the staged state into the tree, saves a version and swaps
// it in as the committed state. The write lock covers the whole flush, so a
// reader never observes a partially written transaction.
func (db *StateDB) Commit(st *State) (hash common.Hash, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	_, err = st.Update()
	if err != nil {
		return
	}
	hash, err = st.save()
	if err != nil {
		return
	}
	db.state = st
	return
}

// Verify checks an envelope against the committed state.
func (db *StateDB) Verify(btx *tx.Tx, allowNonceGap bool) (succ bool, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.state.Verify(btx, allowNonceGap)
}

func (db *StateDB) GetAccountByIndex(idx uint64) (acnt *Account, height uint64, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	acnt, err = db.state.GetAccount(idx)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetAccountByAddress(addr string) (acnt *Account, height uint64, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	acnt, err = db.state.FindAccount(addr)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetDatasetById(id uint64) (ds *types.Dataset, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.state.GetDataset(id)
}

func (db *StateDB) AllDatasets() ([]*types.Dataset, error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.state.Datasets()
}

func (db *StateDB) GetProposalById(id uint64) (p *types.Proposal, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.state.GetProposal(id)
}

// Proposal views are filters over the proposal store, computed per request
// rather than maintained as separate state.

func (db *StateDB) PendingProposals(addr string, now int64) ([]*types.Proposal, error) {
	return db.filterProposals(func(p *types.Proposal) bool {
		return p.Open(now) && !p.HasVoted(addr)
	})
}

// PendingReviews is the verifier-scoped variant of PendingProposals: empty
// unless the address holds verifier stake.
func (db *StateDB) PendingReviews(addr string, now int64) ([]*types.Proposal, error) {
	db.mtx.Lock()
	acnt, err := db.state.FindAccount(addr)
	db.mtx.Unlock()
	if err != nil {
		return nil, err
	}
	if acnt == nil || !acnt.IsVerifier() {
		return []*types.Proposal{}, nil
	}
	return db.PendingProposals(addr, now)
}

func (db *StateDB) ReviewedProposals(addr string) ([]*types.Proposal, error) {
	return db.filterProposals(func(p *types.Proposal) bool {
		return p.HasVoted(addr)
	})
}

func (db *StateDB) ApprovedProposals() ([]*types.Proposal, error) {
	return db.filterProposals(func(p *types.Proposal) bool {
		return p.Status == types.ProposalStatusApproved
	})
}

func (db *StateDB) RejectedProposals() ([]*types.Proposal, error) {
	return db.filterProposals(func(p *types.Proposal) bool {
		return p.Status == types.ProposalStatusRejected
	})
}

func (db *StateDB) filterProposals(keep func(*types.Proposal) bool) ([]*types.Proposal, error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	all, err := db.state.Proposals()
	if err != nil {
		return nil, err
	}
	out := make([]*types.Proposal, 0, len(all))
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// VoteStatus reports whether addr has voted on the proposal, and which way.
func (db *StateDB) VoteStatus(proposal uint64, addr string) (voted bool, approve bool, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	p, err := db.state.GetProposal(proposal)
	if err != nil {
		return false, false, err
	}
	approve, voted = p.Voters[addr]
	return
}

func (db *StateDB) UserFavorites(addr string, dataset uint64) (bool, error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.state.IsFavorite(addr, dataset)
}

func (db *StateDB) FavoriteDatasets(addr string) ([]*types.Dataset, error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	ids, err := db.state.FavoritesOf(addr)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Dataset, 0, len(ids))
	for _, id := range ids {
		ds, err := db.state.GetDataset(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}
