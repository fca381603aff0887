package state

import (
	"math/big"
	"testing"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/stretchr/testify/require"
)

func shareSum(ds *types.Dataset) uint64 {
	var sum uint64
	for _, points := range ds.Shares {
		sum += points
	}
	return sum
}

func TestResolveGates(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)

	_, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.ErrorIs(t, err, ErrVotingStillOpen)

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	_, err = st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.NoError(t, err)

	_, err = st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestResolveApprovedDistributesRewardsAndSlashes(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	proposer := addTestAccount(t, st, nil)
	pid := proposeTest(t, st, proposer.Index)

	yes1 := addTestVerifier(t, st, types.Tokens(0))
	yes2 := addTestVerifier(t, st, types.Tokens(0))
	no1 := addTestVerifier(t, st, types.Tokens(0))
	for _, v := range []struct {
		idx     uint64
		approve bool
	}{{yes1.Index, true}, {yes2.Index, true}, {no1.Index, false}} {
		_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: v.approve}, v.idx, false)
		require.NoError(t, err)
	}

	dsBefore, err := st.GetDataset(1)
	require.NoError(t, err)
	sharesBefore := dsBefore.TotalShares
	poolBefore := new(big.Int).Set(dsBefore.RewardPool)

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	ev, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.NoError(t, err)
	require.True(t, ev.Approved)

	// minted shares go to the proposer and the table still sums up
	ds, err := st.GetDataset(1)
	require.NoError(t, err)
	require.Equal(t, sharesBefore+types.ContributorRewardShares, ds.TotalShares)
	require.Equal(t, types.ContributorRewardShares, ds.Shares[proposer.Address()])
	require.Equal(t, ds.TotalShares, shareSum(ds))
	require.Equal(t, "cid-2", ds.Locator)

	// contribution reward drawn from the pool
	require.Equal(t, 0, new(big.Int).Sub(poolBefore, ds.RewardPool).Cmp(ds.ContributionReward))
	gotProposer, err := st.GetAccount(proposer.Index)
	require.NoError(t, err)
	require.Equal(t, 0, gotProposer.Withdrawable.Cmp(ds.ContributionReward))

	// losing voter slashed ten percent of stake
	slash := new(big.Int).Div(types.MinimumStake(), big.NewInt(10))
	gotNo, err := st.GetAccount(no1.Index)
	require.NoError(t, err)
	require.Equal(t, 0, gotNo.Stake.Cmp(new(big.Int).Sub(types.MinimumStake(), slash)))
	require.Equal(t, 0, gotNo.Withdrawable.Sign())

	// winners split the slashed stake on top of the verification reward
	cut := new(big.Int).Div(slash, big.NewInt(2))
	want := new(big.Int).Add(ds.VerificationReward, cut)
	for _, idx := range []uint64{yes1.Index, yes2.Index} {
		got, err := st.GetAccount(idx)
		require.NoError(t, err)
		require.Equal(t, 0, got.Withdrawable.Cmp(want))
		require.Equal(t, 0, got.Stake.Cmp(types.MinimumStake()))
		require.Equal(t, uint64(0), got.OpenVotes)
	}

	require.Equal(t, 0, ev.TotalSlashed.Cmp(slash))
	p, err := st.GetProposal(pid)
	require.NoError(t, err)
	require.True(t, p.Resolved)
	require.Equal(t, types.ProposalStatusApproved, p.Status)
	require.Equal(t, st.Now(), p.ResolvedAt)
}

func TestResolveTieRejects(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)

	yes := addTestVerifier(t, st, types.Tokens(0))
	no := addTestVerifier(t, st, types.Tokens(0))
	_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, yes.Index, false)
	require.NoError(t, err)
	_, err = st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: false}, no.Index, false)
	require.NoError(t, err)

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	ev, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.NoError(t, err)
	require.False(t, ev.Approved)

	// rejection mirrors the roles: the yes voter is slashed, the no voter wins
	slash := new(big.Int).Div(types.MinimumStake(), big.NewInt(10))
	gotYes, err := st.GetAccount(yes.Index)
	require.NoError(t, err)
	require.Equal(t, 0, gotYes.Stake.Cmp(new(big.Int).Sub(types.MinimumStake(), slash)))

	ds, err := st.GetDataset(1)
	require.NoError(t, err)
	gotNo, err := st.GetAccount(no.Index)
	require.NoError(t, err)
	require.Equal(t, 0, gotNo.Withdrawable.Cmp(new(big.Int).Add(ds.VerificationReward, slash)))

	// no minting, no locator change, no pool draw on rejection
	require.Equal(t, types.CreatorInitialShares, ds.TotalShares)
	require.Equal(t, "cid-1", ds.Locator)
	require.Equal(t, 0, ds.RewardPool.Cmp(types.Tokens(50)))
}

func TestResolveSlashDustGoesToSlashPool(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)

	winners := make([]*Account, 3)
	for i := range winners {
		winners[i] = addTestVerifier(t, st, types.Tokens(0))
		_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, winners[i].Index, false)
		require.NoError(t, err)
	}
	loser := addTestVerifier(t, st, types.Tokens(0))
	_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: false}, loser.Index, false)
	require.NoError(t, err)

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	ev, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.NoError(t, err)

	// 10% of 1000 tokens split three ways leaves an integer remainder
	slash := new(big.Int).Div(types.MinimumStake(), big.NewInt(10))
	cut := new(big.Int).Div(slash, big.NewInt(3))
	dust := new(big.Int).Sub(slash, new(big.Int).Mul(cut, big.NewInt(3)))
	require.Equal(t, 1, dust.Sign())
	require.Equal(t, 0, st.Header().SlashPool.Cmp(dust))

	paid := new(big.Int).Mul(cut, big.NewInt(3))
	paid.Add(paid, dust)
	require.Equal(t, 0, ev.TotalSlashed.Cmp(paid))
}

func TestResolveZeroVotesRejects(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	ev, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
	require.NoError(t, err)
	require.False(t, ev.Approved)
	require.Equal(t, 0, ev.TotalSlashed.Sign())
	require.Equal(t, 0, ev.RewardsDistributed.Sign())
}

func TestResolveCapsRewardAtRemainingPool(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, types.Tokens(1000))
	wtx := validUpload()
	wtx.ContributionReward = types.Tokens(40)
	wtx.RewardPool = types.Tokens(50)
	_, err := st.UploadDataset(wtx, creator.Index, false)
	require.NoError(t, err)

	proposer := addTestAccount(t, st, nil)
	v := addTestVerifier(t, st, types.Tokens(0))

	for i := 0; i < 2; i++ {
		pid := proposeTest(t, st, proposer.Index)
		_, err = st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, v.Index, false)
		require.NoError(t, err)
		st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
		ev, err := st.ResolveContribution(&tx.ResolveTx{Proposal: pid}, creator.Index, false)
		require.NoError(t, err)
		require.True(t, ev.Approved)
	}

	// first approval pays 40, second only the remaining 10; the pool never
	// goes negative and resolution still finalizes
	ds, err := st.GetDataset(1)
	require.NoError(t, err)
	require.Equal(t, 0, ds.RewardPool.Sign())

	gotProposer, err := st.GetAccount(proposer.Index)
	require.NoError(t, err)
	require.Equal(t, 0, gotProposer.Withdrawable.Cmp(types.Tokens(50)))
	require.Equal(t, types.CreatorInitialShares+2*types.ContributorRewardShares, ds.TotalShares)
}
