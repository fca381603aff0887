package state

import (
	"math/big"
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	logger := cmtlog.NewNopLogger()
	tdb := iavl.NewMutableTree(dbm.NewMemDB(), 128, true, newTreeLogger(logger))
	_, err := tdb.Load()
	require.NoError(t, err)
	st := newState(tdb, logger)
	require.NoError(t, st.load())
	st.SetChainId("test-chain")
	st.SetTime(1_700_000_000)
	return st
}

func addTestAccount(t *testing.T, st *State, balance *big.Int) *Account {
	t.Helper()
	pk := ed25519.GenPrivKey().PubKey().Bytes()
	a := NewAccount(pk)
	if balance != nil {
		a.Balance.Set(balance)
	}
	require.NoError(t, st.AddAccount(a))
	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	return got
}

func addTestVerifier(t *testing.T, st *State, balance *big.Int) *Account {
	t.Helper()
	a := addTestAccount(t, st, new(big.Int).Add(balance, types.MinimumStake()))
	_, err := st.Stake(&tx.StakeTx{Amount: types.MinimumStake()}, a.Index, false)
	require.NoError(t, err)
	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	return got
}

func TestAddAccountAssignsIndexes(t *testing.T) {
	st := newTestState(t)
	a := addTestAccount(t, st, types.Tokens(1))
	b := addTestAccount(t, st, nil)
	require.Equal(t, uint64(StartAccountIdx), a.Index)
	require.Equal(t, uint64(StartAccountIdx+1), b.Index)

	found, err := st.FindAccount(a.Address())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, a.Index, found.Index)
}

func TestAddAccountRejectsDuplicate(t *testing.T) {
	st := newTestState(t)
	a := addTestAccount(t, st, nil)
	dup := NewAccount(a.PubKey)
	require.Error(t, st.AddAccount(dup))
}

func TestUpdatePersistsAcrossReload(t *testing.T) {
	logger := cmtlog.NewNopLogger()
	tdb := iavl.NewMutableTree(dbm.NewMemDB(), 128, true, newTreeLogger(logger))
	_, err := tdb.Load()
	require.NoError(t, err)
	st := newState(tdb, logger)
	require.NoError(t, st.load())
	st.SetChainId("test-chain")
	st.SetTime(100)

	a := addTestAccount(t, st, types.Tokens(50))
	_, err = st.UploadDataset(&tx.UploadDatasetTx{
		Locator:            "cid-1",
		Title:              "weather",
		Price:              types.Tokens(1),
		ContributionReward: types.Tokens(1),
		VerificationReward: types.Tokens(1),
		RewardPool:         types.Tokens(10),
	}, a.Index, false)
	require.NoError(t, err)

	_, err = st.Update()
	require.NoError(t, err)
	_, err = st.save()
	require.NoError(t, err)

	reloaded := newState(tdb, logger)
	require.NoError(t, reloaded.load())
	require.Equal(t, uint64(1), reloaded.datasetMaxIndex)
	ds, err := reloaded.GetDataset(1)
	require.NoError(t, err)
	require.Equal(t, "weather", ds.Title)
	require.Equal(t, types.CreatorInitialShares, ds.TotalShares)

	found, err := reloaded.FindAccount(a.Address())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, 0, found.Balance.Cmp(types.Tokens(40)))
}

func TestVerifyChecksSignatureAndNonce(t *testing.T) {
	st := newTestState(t)
	priv := ed25519.GenPrivKey()

	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tx.TxTypeDeposit,
		Nonce:   0,
		Pubkey:  priv.PubKey().Bytes(),
		Tx:      &tx.DepositTx{Amount: types.Tokens(1)},
	}
	dat, err := btx.SigData([]byte("test-chain"))
	require.NoError(t, err)
	sig, err := priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}

	ok, err := st.Verify(btx, false)
	require.NoError(t, err)
	require.True(t, ok)

	// wrong chain id invalidates the signature
	st.SetChainId("other-chain")
	ok, err = st.Verify(btx, false)
	require.False(t, ok)
	require.ErrorIs(t, err, ErrTxSigInvalid)
	st.SetChainId("test-chain")

	// future nonce rejected without the gap allowance
	btx.Nonce = 5
	_, err = st.Verify(btx, false)
	require.ErrorIs(t, err, ErrTxNonceInvalid)
	_, err = st.Verify(btx, true)
	require.ErrorIs(t, err, ErrTxSigInvalid) // gap allowed, but sig covers nonce 0
}

func TestSenderRegistersOnFirstContact(t *testing.T) {
	st := newTestState(t)
	priv := ed25519.GenPrivKey()
	btx := &tx.Tx{Pubkey: priv.PubKey().Bytes()}

	_, err := st.Sender(btx, false)
	require.ErrorIs(t, err, ErrAccountNotFound)

	acnt, err := st.Sender(btx, true)
	require.NoError(t, err)
	require.Equal(t, 0, acnt.Balance.Sign())

	again, err := st.Sender(btx, true)
	require.NoError(t, err)
	require.Equal(t, acnt.Index, again.Index)
}
