package state

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	StartAccountIdx = 65536

	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
)

var (
	KeyState         = "s"
	KeyAccountIndex  = "i%s"
	KeyAccountBody   = "a%v"
	KeyDatasetBody   = "ds%v"
	KeyDatasetIndex  = "dsi"
	KeyProposalBody  = "p%v"
	KeyProposalIndex = "pi"
	KeyFavorites     = "f%s"
)

// Header is the committed ledger head: height, id allocation watermarks and
// the keccak of the tree root.
type Header struct {
	ChainId    string         `json:"chain_id"`
	Height     uint64         `json:"height"`
	AccountIdx uint64         `json:"account_idx"`
	Time       int64          `json:"time"`
	SlashPool  *big.Int       `json:"slash_pool"`
	Hash       types.HexBytes `json:"hash"`
	RootHash   types.HexBytes `json:"root_hash"`
}

func (h *Header) Clone() *Header {
	n := &Header{
		ChainId:    h.ChainId,
		Height:     h.Height,
		AccountIdx: h.AccountIdx,
		Time:       h.Time,
		SlashPool:  new(big.Int).Set(h.SlashPool),
	}
	n.Hash = append(types.HexBytes(nil), h.Hash...)
	n.RootHash = append(types.HexBytes(nil), h.RootHash...)
	return n
}

// State stages mutations over the committed tree. Writes live only in the
// staged maps until Update flushes them to the tree and save commits a new
// version; dropping a State before Update discards everything, which is how
// failed transactions leave no trace.
type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header *Header
	idxs   map[string]uint64
	acnts  map[uint64]*Account

	modifiedAcnts     map[uint64]uint32
	datasets          map[uint64]*types.Dataset
	modifiedDatasets  map[uint64]bool
	proposals         map[uint64]*types.Proposal
	modifiedProposals map[uint64]bool
	favorites         map[string]map[uint64]bool
	modifiedFavs      map[string]bool

	datasetMaxIndex  uint64
	proposalMaxIndex uint64
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	s := &State{
		logger:            logger,
		db:                db,
		dbVer:             0,
		header:            &Header{SlashPool: new(big.Int)},
		idxs:              make(map[string]uint64),
		acnts:             make(map[uint64]*Account),
		modifiedAcnts:     make(map[uint64]uint32),
		datasets:          make(map[uint64]*types.Dataset),
		modifiedDatasets:  make(map[uint64]bool),
		proposals:         make(map[uint64]*types.Proposal),
		modifiedProposals: make(map[uint64]bool),
		favorites:         make(map[string]map[uint64]bool),
		modifiedFavs:      make(map[string]bool),
	}
	s.header.AccountIdx = StartAccountIdx
	return s
}

// nextState opens a fresh staging layer over the same committed tree, with
// the height advanced by one.
func (s *State) nextState() *State {
	n := &State{
		logger:            s.logger,
		db:                s.db,
		dbVer:             s.dbVer,
		idxs:              make(map[string]uint64),
		acnts:             make(map[uint64]*Account),
		modifiedAcnts:     make(map[uint64]uint32),
		datasets:          make(map[uint64]*types.Dataset),
		modifiedDatasets:  make(map[uint64]bool),
		proposals:         make(map[uint64]*types.Proposal),
		modifiedProposals: make(map[uint64]bool),
		favorites:         make(map[string]map[uint64]bool),
		modifiedFavs:      make(map[string]bool),
		datasetMaxIndex:   s.datasetMaxIndex,
		proposalMaxIndex:  s.proposalMaxIndex,
	}
	n.header = s.header.Clone()
	if len(s.header.Hash) != 0 {
		n.header.Height = s.header.Height + 1
	}
	return n
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyDatasetIndex))
	if err != nil {
		if err != leveldb.ErrNotFound {
			return err
		}
	}
	s.datasetMaxIndex = new(big.Int).SetBytes(val).Uint64()
	val, err = s.db.Get([]byte(KeyProposalIndex))
	if err != nil {
		if err != leveldb.ErrNotFound {
			return err
		}
	}
	s.proposalMaxIndex = new(big.Int).SetBytes(val).Uint64()
	val, err = s.db.Get([]byte(KeyState))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = json.Unmarshal(val, s.header)
		if err != nil {
			return
		}
		if s.header.SlashPool == nil {
			s.header.SlashPool = new(big.Int)
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		s.header.RootHash = append(types.HexBytes(nil), rootHash...)
		s.header.Hash = append(types.HexBytes(nil), h[:]...)
	}
	return
}

// Update flushes every staged record to the tree and returns the working
// hash. Any write error rolls the tree back so the staged layer can be
// discarded whole.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = json.Marshal(s.header)
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyState), val)
	if err != nil {
		return
	}

	if len(s.modifiedDatasets) != 0 {
		_, err = s.db.Set([]byte(KeyDatasetIndex), big.NewInt(int64(s.datasetMaxIndex)).Bytes())
		if err != nil {
			return
		}
		ids := sortedKeys(s.modifiedDatasets)
		for _, id := range ids {
			ds := s.datasets[id]
			key := fmt.Sprintf(KeyDatasetBody, id)
			val, err = json.Marshal(ds)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.modifiedProposals) != 0 {
		_, err = s.db.Set([]byte(KeyProposalIndex), big.NewInt(int64(s.proposalMaxIndex)).Bytes())
		if err != nil {
			return
		}
		ids := sortedKeys(s.modifiedProposals)
		for _, id := range ids {
			p := s.proposals[id]
			key := fmt.Sprintf(KeyProposalBody, id)
			val, err = json.Marshal(p)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.modifiedFavs) != 0 {
		addrs := make([]string, 0, len(s.modifiedFavs))
		for addr := range s.modifiedFavs {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)
		for _, addr := range addrs {
			set := s.favorites[addr]
			ids := sortedKeys(set)
			key := fmt.Sprintf(KeyFavorites, addr)
			val, err = json.Marshal(ids)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	n := len(s.modifiedAcnts)
	if n > 0 {
		idxs := make([]uint64, 0, n)
		for idx := range s.modifiedAcnts {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool {
			return idxs[i] < idxs[j]
		})
		for _, idx := range idxs {
			flag := s.modifiedAcnts[idx]
			acnt := s.acnts[idx]
			key := fmt.Sprintf(KeyAccountBody, acnt.Index)
			val, err = json.Marshal(acnt)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
			if flag&ModifiedFlagNew == ModifiedFlagNew {
				key = fmt.Sprintf(KeyAccountIndex, acnt.Address())
				val, err = rlp.EncodeToBytes(acnt.Index)
				if err != nil {
					return
				}
				_, err = s.db.Set([]byte(key), val)
				if err != nil {
					return
				}
			}
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[uint64]uint32)
	s.modifiedDatasets = make(map[uint64]bool)
	s.modifiedProposals = make(map[uint64]bool)
	s.modifiedFavs = make(map[string]bool)
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func sortedKeys(m map[uint64]bool) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *State) Header() *Header {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

func (s *State) SetTime(now int64) {
	s.header.Time = now
}

func (s *State) Now() int64 {
	return s.header.Time
}

func (s *State) GetAccount(idx uint64) (acnt *Account, err error) {
	if idx >= s.header.AccountIdx {
		err = ErrAccountNotFound
		return
	}
	acnt = s.acnts[idx]
	if acnt != nil {
		return
	}
	key := fmt.Sprintf(KeyAccountBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrNotFound
		return
	}
	acnt = new(Account)
	err = json.Unmarshal(val, acnt)
	if err != nil {
		acnt = nil
		return
	}
	s.acnts[idx] = acnt
	return
}

func (s *State) FindAccount(addr string) (acnt *Account, err error) {
	idx, ok := s.idxs[addr]
	if !ok {
		key := fmt.Sprintf(KeyAccountIndex, addr)
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if err == leveldb.ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if val == nil {
			// may be staged but not yet flushed
			for _, acc := range s.acnts {
				if acc.Address() == addr {
					return acc, nil
				}
			}
			return nil, nil
		}
		err = rlp.DecodeBytes(val, &idx)
		if err != nil {
			return nil, err
		}
		s.idxs[addr] = idx
	}
	acnt, err = s.GetAccount(idx)
	return
}

func (s *State) AddAccount(acnt *Account) (err error) {
	a, err := s.FindAccount(acnt.Address())
	if err != nil {
		return err
	}
	if a != nil {
		return ErrTxNonceInvalid
	}
	acnt.Index = s.header.AccountIdx
	s.header.AccountIdx += 1
	s.acnts[acnt.Index] = acnt.Clone()
	s.modifiedAcnts[acnt.Index] = ModifiedFlagNew
	s.idxs[acnt.Address()] = acnt.Index
	return
}

// touchAccount stages a mutated account for the next Update.
func (s *State) touchAccount(a *Account) {
	v := s.modifiedAcnts[a.Index]
	v |= ModifiedFlagMod
	s.modifiedAcnts[a.Index] = v
	s.acnts[a.Index] = a.Clone()
}

// Sender resolves the envelope pubkey to an account, registering a fresh
// zero-balance account on first contact.
func (s *State) Sender(btx *tx.Tx, register bool) (acnt *Account, err error) {
	candidate := NewAccount(btx.Pubkey)
	acnt, err = s.FindAccount(candidate.Address())
	if err != nil {
		return nil, err
	}
	if acnt == nil {
		if !register {
			return nil, ErrAccountNotFound
		}
		err = s.AddAccount(candidate)
		if err != nil {
			return nil, err
		}
		acnt = s.acnts[candidate.Index]
	}
	return acnt, nil
}

// Verify checks the envelope signature and nonce against the sender account.
// Unknown senders verify against the embedded pubkey at nonce 0.
func (s *State) Verify(btx *tx.Tx, allowNonceGap bool) (succ bool, err error) {
	candidate := NewAccount(btx.Pubkey)
	a, err := s.FindAccount(candidate.Address())
	if err != nil {
		return false, err
	}
	if a == nil {
		a = candidate
	}
	if !(a.Nonce == btx.Nonce || (allowNonceGap && a.Nonce < btx.Nonce)) {
		err = ErrTxNonceInvalid
		return
	}
	dat, err := btx.SigData([]byte(s.header.ChainId))
	if err != nil {
		return false, err
	}
	succ = a.Verify(dat, btx.Sig)
	if !succ {
		err = ErrTxSigInvalid
	}
	return
}

func (s *State) bumpNonce(a *Account) {
	a.Nonce += 1
	s.touchAccount(a)
}
