package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/config"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"
)

const testChainId = "datamarket-test"

func newTestApp(t *testing.T, accounts ...types.GenesisAccount) (*App, *clock.Mock) {
	t.Helper()
	cfg := config.DefaultConfig(t.TempDir())
	require.NoError(t, cfg.EnsureDirs())
	cl := clock.NewMock()
	cl.Add(time.Duration(1_700_000_000) * time.Second)
	a, err := newApp(cfg, cmtlog.NewNopLogger(), cl)
	require.NoError(t, err)
	t.Cleanup(a.Stop)

	gen := &types.GenesisDoc{
		GenesisTime: cl.Now(),
		ChainID:     testChainId,
		Accounts:    accounts,
	}
	require.NoError(t, a.InitChain(gen))
	return a, cl
}

func signedTx(t *testing.T, priv ed25519.PrivKey, nonce uint64, tp tx.TxType, payload any) []byte {
	t.Helper()
	btx := &tx.Tx{
		Version: tx.TxVersion1,
		Type:    tp,
		Nonce:   nonce,
		Pubkey:  priv.PubKey().Bytes(),
		Tx:      payload,
	}
	dat, err := btx.SigData([]byte(testChainId))
	require.NoError(t, err)
	sig, err := priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}
	out, err := tx.MarshalTx(btx)
	require.NoError(t, err)
	return out
}

func TestInitChainSeedsAccounts(t *testing.T) {
	priv := ed25519.GenPrivKey()
	a, _ := newTestApp(t, types.GenesisAccount{
		PubKey:  priv.PubKey().Bytes(),
		Name:    "alice",
		Balance: types.Tokens(100),
		Stake:   types.MinimumStake(),
	})

	acnt, _, err := a.DB().GetAccountByAddress(priv.PubKey().Address().String())
	require.NoError(t, err)
	require.NotNil(t, acnt)
	require.Equal(t, "alice", acnt.Name)
	require.Equal(t, 0, acnt.Balance.Cmp(types.Tokens(100)))
	require.True(t, acnt.IsVerifier())
	require.Equal(t, testChainId, a.DB().Header().ChainId)

	// replayed genesis is a no-op
	require.NoError(t, a.InitChain(&types.GenesisDoc{ChainID: "other"}))
	require.Equal(t, testChainId, a.DB().Header().ChainId)
}

func TestDeliverTxCommitsPerTransaction(t *testing.T) {
	priv := ed25519.GenPrivKey()
	a, _ := newTestApp(t, types.GenesisAccount{
		PubKey:  priv.PubKey().Bytes(),
		Balance: types.Tokens(5000),
	})
	ctx := context.Background()
	startHeight := a.DB().Header().Height

	res, err := a.DeliverTx(ctx, signedTx(t, priv, 0, tx.TxTypeStake, &tx.StakeTx{Amount: types.MinimumStake()}))
	require.NoError(t, err)
	require.Equal(t, startHeight+1, res.Height)
	require.Len(t, res.Events, 1)
	require.Equal(t, types.EventStakeType, res.Events[0].Type)

	res, err = a.DeliverTx(ctx, signedTx(t, priv, 1, tx.TxTypeUnstake, &tx.UnstakeTx{}))
	require.NoError(t, err)
	require.Equal(t, startHeight+2, res.Height)

	acnt, _, err := a.DB().GetAccountByAddress(priv.PubKey().Address().String())
	require.NoError(t, err)
	require.Equal(t, 0, acnt.Balance.Cmp(types.Tokens(5000)))
	require.Equal(t, uint64(2), acnt.Nonce)
}

func TestDeliverTxRejectsBadSignatureAndNonce(t *testing.T) {
	priv := ed25519.GenPrivKey()
	a, _ := newTestApp(t, types.GenesisAccount{
		PubKey:  priv.PubKey().Bytes(),
		Balance: types.Tokens(5000),
	})
	ctx := context.Background()

	// signature from a different key
	dat := signedTx(t, ed25519.GenPrivKey(), 0, tx.TxTypeDeposit, &tx.DepositTx{Amount: types.Tokens(1)})
	btx, err := tx.UnmarshalTx(dat)
	require.NoError(t, err)
	btx.Pubkey = priv.PubKey().Bytes()
	forged, err := tx.MarshalTx(btx)
	require.NoError(t, err)
	_, err = a.DeliverTx(ctx, forged)
	require.Error(t, err)

	// stale nonce
	_, err = a.DeliverTx(ctx, signedTx(t, priv, 0, tx.TxTypeStake, &tx.StakeTx{Amount: types.MinimumStake()}))
	require.NoError(t, err)
	_, err = a.DeliverTx(ctx, signedTx(t, priv, 0, tx.TxTypeUnstake, &tx.UnstakeTx{}))
	require.Error(t, err)

	header := a.DB().Header()
	require.Equal(t, uint64(1), header.Height)
}

func TestDeliverTxFailureLeavesNoTrace(t *testing.T) {
	priv := ed25519.GenPrivKey()
	a, _ := newTestApp(t, types.GenesisAccount{
		PubKey:  priv.PubKey().Bytes(),
		Balance: types.Tokens(10),
	})
	ctx := context.Background()

	// valid envelope, rejected by the state machine
	_, err := a.DeliverTx(ctx, signedTx(t, priv, 0, tx.TxTypeStake, &tx.StakeTx{Amount: types.MinimumStake()}))
	require.Error(t, err)

	acnt, _, err := a.DB().GetAccountByAddress(priv.PubKey().Address().String())
	require.NoError(t, err)
	require.Equal(t, 0, acnt.Balance.Cmp(types.Tokens(10)))
	require.Equal(t, uint64(0), acnt.Nonce)
	require.Equal(t, uint64(0), a.DB().Header().Height)
}

func TestDeliverTxAutoRegistersSender(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	priv := ed25519.GenPrivKey()

	res, err := a.DeliverTx(ctx, signedTx(t, priv, 0, tx.TxTypeDeposit, &tx.DepositTx{Amount: types.Tokens(7)}))
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	acnt, _, err := a.DB().GetAccountByAddress(priv.PubKey().Address().String())
	require.NoError(t, err)
	require.NotNil(t, acnt)
	require.Equal(t, 0, acnt.Balance.Cmp(types.Tokens(7)))
}

func TestCheckTxCommitsNothing(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	priv := ed25519.GenPrivKey()

	err := a.CheckTx(ctx, signedTx(t, priv, 0, tx.TxTypeDeposit, &tx.DepositTx{Amount: types.Tokens(7)}))
	require.NoError(t, err)

	require.Equal(t, uint64(0), a.DB().Header().Height)
	acnt, _, err := a.DB().GetAccountByAddress(priv.PubKey().Address().String())
	require.NoError(t, err)
	require.Nil(t, acnt)
}

func TestDeliverTxSerializesConcurrentSubmitters(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	const n = 8
	txs := make([][]byte, n)
	for i := range txs {
		txs[i] = signedTx(t, ed25519.GenPrivKey(), 0, tx.TxTypeDeposit, &tx.DepositTx{Amount: types.Tokens(1)})
	}

	heights := make(chan uint64, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(dat []byte) {
			defer wg.Done()
			res, err := a.DeliverTx(ctx, dat)
			if err != nil {
				errs <- err
				return
			}
			heights <- res.Height
		}(txs[i])
	}
	wg.Wait()
	close(heights)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[uint64]bool)
	for h := range heights {
		require.False(t, seen[h])
		seen[h] = true
	}
	require.Len(t, seen, n)
	require.Equal(t, uint64(n), a.DB().Header().Height)
}

func TestReadsSeeOnlyCommittedState(t *testing.T) {
	priv := ed25519.GenPrivKey()
	a, _ := newTestApp(t, types.GenesisAccount{
		PubKey:  priv.PubKey().Bytes(),
		Balance: types.Tokens(100_000),
	})
	ctx := context.Background()
	addr := priv.PubKey().Address().String()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	readErrs := make(chan error, 4)

	// every view that loads records must only ever see whole, committed
	// datasets, never a half-flushed one
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			list, err := a.DB().AllDatasets()
			if err != nil {
				readErrs <- err
				return
			}
			for _, ds := range list {
				if ds.Title == "" || ds.CreatorAddress == "" {
					readErrs <- errors.New("read a partially written dataset")
					return
				}
				var sum uint64
				for _, n := range ds.Shares {
					sum += n
				}
				if sum != ds.TotalShares {
					readErrs <- errors.New("share table does not sum to total")
					return
				}
			}
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, _, err := a.DB().GetAccountByAddress(addr); err != nil {
				readErrs <- err
				return
			}
			if _, err := a.DB().ApprovedProposals(); err != nil {
				readErrs <- err
				return
			}
			if _, err := a.DB().FavoriteDatasets(addr); err != nil {
				readErrs <- err
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		dat := signedTx(t, priv, uint64(i), tx.TxTypeUpload, &tx.UploadDatasetTx{
			Locator:            fmt.Sprintf("cid-%d", i),
			Title:              fmt.Sprintf("dataset %d", i),
			Price:              types.Tokens(1),
			ContributionReward: types.Tokens(1),
			VerificationReward: types.Tokens(1),
			RewardPool:         types.Tokens(1),
		})
		require.NoError(t, a.CheckTx(ctx, dat))
		_, err := a.DeliverTx(ctx, dat)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
	close(readErrs)
	for err := range readErrs {
		require.NoError(t, err)
	}

	list, err := a.DB().AllDatasets()
	require.NoError(t, err)
	require.Len(t, list, 50)
}

func TestContributionLifecycle(t *testing.T) {
	creator := ed25519.GenPrivKey()
	verifier := ed25519.GenPrivKey()
	proposer := ed25519.GenPrivKey()
	buyer := ed25519.GenPrivKey()
	a, cl := newTestApp(t,
		types.GenesisAccount{PubKey: creator.PubKey().Bytes(), Balance: types.Tokens(1000)},
		types.GenesisAccount{PubKey: verifier.PubKey().Bytes(), Stake: types.MinimumStake()},
		types.GenesisAccount{PubKey: proposer.PubKey().Bytes()},
		types.GenesisAccount{PubKey: buyer.PubKey().Bytes(), Balance: types.Tokens(10)},
	)
	ctx := context.Background()
	events := a.Subscribe()

	_, err := a.DeliverTx(ctx, signedTx(t, creator, 0, tx.TxTypeUpload, &tx.UploadDatasetTx{
		Locator:            "cid-1",
		Title:              "sensor readings",
		Price:              types.Tokens(10),
		ContributionReward: types.Tokens(5),
		VerificationReward: types.Tokens(1),
		RewardPool:         types.Tokens(50),
	}))
	require.NoError(t, err)

	_, err = a.DeliverTx(ctx, signedTx(t, proposer, 0, tx.TxTypePropose, &tx.ProposeContributionTx{
		Dataset: 1,
		Locator: "cid-2",
		Title:   "extra sensors",
		Type:    types.ContributionAddition,
	}))
	require.NoError(t, err)

	_, err = a.DeliverTx(ctx, signedTx(t, verifier, 0, tx.TxTypeVote, &tx.VoteTx{Proposal: 1, Approve: true}))
	require.NoError(t, err)

	// the window must close before resolution
	_, err = a.DeliverTx(ctx, signedTx(t, creator, 1, tx.TxTypeResolve, &tx.ResolveTx{Proposal: 1}))
	require.Error(t, err)

	cl.Add(time.Duration(types.VoteDurationSeconds+1) * time.Second)
	res, err := a.DeliverTx(ctx, signedTx(t, creator, 1, tx.TxTypeResolve, &tx.ResolveTx{Proposal: 1}))
	require.NoError(t, err)
	ev := types.DecodeEventResolve(res.Events[0])
	require.True(t, ev.Approved)

	ds, err := a.DB().GetDatasetById(1)
	require.NoError(t, err)
	require.Equal(t, "cid-2", ds.Locator)
	require.Equal(t, types.CreatorInitialShares+types.ContributorRewardShares, ds.TotalShares)

	_, err = a.DeliverTx(ctx, signedTx(t, buyer, 0, tx.TxTypePurchase, &tx.PurchaseTx{Dataset: 1}))
	require.NoError(t, err)

	_, err = a.DeliverTx(ctx, signedTx(t, proposer, 1, tx.TxTypeClaim, &tx.ClaimTx{}))
	require.NoError(t, err)
	acnt, _, err := a.DB().GetAccountByAddress(proposer.PubKey().Address().String())
	require.NoError(t, err)
	require.Equal(t, 0, acnt.Withdrawable.Sign())
	require.True(t, acnt.Balance.Sign() > 0)

	// every committed tx published its events in order
	wantTypes := []string{
		types.EventUploadType,
		types.EventProposeType,
		types.EventVoteType,
		types.EventResolveType,
		types.EventPurchaseType,
		types.EventClaimType,
	}
	for _, want := range wantTypes {
		got := <-events
		require.Equal(t, want, got.Event.Type)
	}
}
