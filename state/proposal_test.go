package state

import (
	"testing"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/stretchr/testify/require"
)

func setupDataset(t *testing.T, st *State) *Account {
	t.Helper()
	creator := addTestAccount(t, st, types.Tokens(1000))
	_, err := st.UploadDataset(validUpload(), creator.Index, false)
	require.NoError(t, err)
	return creator
}

func TestProposeContributionOpensVotingWindow(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	proposer := addTestAccount(t, st, nil)

	ev, err := st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 1,
		Locator: "cid-2",
		Title:   "dedupe rows",
		Type:    types.ContributionCleaning,
	}, proposer.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ev.Proposal)
	require.Equal(t, st.Now()+types.VoteDurationSeconds, ev.VoteDeadline)

	p, err := st.GetProposal(1)
	require.NoError(t, err)
	require.Equal(t, types.ProposalStatusVoting, p.Status)
	require.True(t, p.Open(st.Now()))
	require.False(t, p.Closed(st.Now()))
	require.Equal(t, proposer.Address(), p.ProposerAddress)

	// dataset unchanged until an approved resolution
	ds, err := st.GetDataset(1)
	require.NoError(t, err)
	require.Equal(t, "cid-1", ds.Locator)
	_ = creator
}

func TestProposeContributionValidation(t *testing.T) {
	st := newTestState(t)
	setupDataset(t, st)
	proposer := addTestAccount(t, st, nil)

	_, err := st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 9, Locator: "cid-2", Title: "x", Type: types.ContributionAddition,
	}, proposer.Index, false)
	require.ErrorIs(t, err, ErrDatasetNotFound)

	_, err = st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 1, Locator: "", Title: "x", Type: types.ContributionAddition,
	}, proposer.Index, false)
	require.ErrorIs(t, err, ErrEmptyLocator)

	_, err = st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 1, Locator: "cid-2", Title: "", Type: types.ContributionAddition,
	}, proposer.Index, false)
	require.ErrorIs(t, err, ErrEmptyTitle)

	_, err = st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 1, Locator: "cid-2", Title: "x", Type: types.ContributionType(99),
	}, proposer.Index, false)
	require.ErrorIs(t, err, ErrInvalidContribution)
}

func proposeTest(t *testing.T, st *State, proposer uint64) uint64 {
	t.Helper()
	ev, err := st.ProposeContribution(&tx.ProposeContributionTx{
		Dataset: 1,
		Locator: "cid-2",
		Title:   "more samples",
		Type:    types.ContributionAddition,
	}, proposer, false)
	require.NoError(t, err)
	return ev.Proposal
}

func TestVoteRequiresVerifierStake(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)

	outsider := addTestAccount(t, st, types.Tokens(10))
	_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, outsider.Index, false)
	require.ErrorIs(t, err, ErrNotAVerifier)
	require.Equal(t, KindAuthorization, KindOf(err))
}

func TestVoteRejectsDuplicates(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)
	v := addTestVerifier(t, st, types.Tokens(10))

	ev, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, v.Index, false)
	require.NoError(t, err)
	require.True(t, ev.Approve)

	_, err = st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: false}, v.Index, false)
	require.ErrorIs(t, err, ErrDuplicateVote)

	p, err := st.GetProposal(pid)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.YesVotes)
	require.Equal(t, uint64(0), p.NoVotes)
}

func TestVoteAfterDeadlineRejected(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid := proposeTest(t, st, creator.Index)
	v := addTestVerifier(t, st, types.Tokens(10))

	st.SetTime(st.Now() + types.VoteDurationSeconds + 1)
	_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid, Approve: true}, v.Index, false)
	require.ErrorIs(t, err, ErrVotingClosed)
}

func TestVoteTracksOpenObligations(t *testing.T) {
	st := newTestState(t)
	creator := setupDataset(t, st)
	pid1 := proposeTest(t, st, creator.Index)
	pid2 := proposeTest(t, st, creator.Index)
	v := addTestVerifier(t, st, types.Tokens(10))

	_, err := st.VoteOnContribution(&tx.VoteTx{Proposal: pid1, Approve: true}, v.Index, false)
	require.NoError(t, err)
	_, err = st.VoteOnContribution(&tx.VoteTx{Proposal: pid2, Approve: false}, v.Index, false)
	require.NoError(t, err)

	got, err := st.GetAccount(v.Index)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.OpenVotes)
}

func TestGetProposalUnknownId(t *testing.T) {
	st := newTestState(t)
	_, err := st.GetProposal(1)
	require.ErrorIs(t, err, ErrProposalNotFound)
}
