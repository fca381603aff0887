package state

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// ProposeContribution opens a contribution candidate against an existing
// dataset. Anyone may propose; multiple proposals per dataset run
// independently, each with its own voting window.
func (s *State) ProposeContribution(wtx *tx.ProposeContributionTx, sender uint64, checkOnly bool) (event *types.EventPropose, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if _, err = s.GetDataset(wtx.Dataset); err != nil {
		return nil, err
	}
	if wtx.Locator == "" {
		return nil, ErrEmptyLocator
	}
	if wtx.Title == "" {
		return nil, ErrEmptyTitle
	}
	if !wtx.Type.Valid() {
		return nil, ErrInvalidContribution
	}
	if !checkOnly {
		s.proposalMaxIndex += 1
		now := s.header.Time
		p := &types.Proposal{
			Id:              s.proposalMaxIndex,
			Dataset:         wtx.Dataset,
			Proposer:        a.Index,
			ProposerAddress: a.Address(),
			Locator:         wtx.Locator,
			Title:           wtx.Title,
			Description:     wtx.Description,
			Type:            wtx.Type,
			CreatedAt:       now,
			VoteDeadline:    now + types.VoteDurationSeconds,
			Status:          types.ProposalStatusVoting,
			Voters:          make(map[string]bool),
		}
		s.proposals[p.Id] = p
		s.modifiedProposals[p.Id] = true
		s.bumpNonce(a)
		event = &types.EventPropose{
			Proposal:        p.Id,
			Dataset:         p.Dataset,
			Proposer:        a.Index,
			ProposerAddress: p.ProposerAddress,
			Type:            p.Type.String(),
			VoteDeadline:    p.VoteDeadline,
		}
	}
	return
}

// VoteOnContribution records one verifier's choice. Rejected when the caller
// is not a staked verifier, has already voted, or the window has closed.
func (s *State) VoteOnContribution(wtx *tx.VoteTx, sender uint64, checkOnly bool) (event *types.EventVote, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if !a.IsVerifier() {
		return nil, ErrNotAVerifier
	}
	p, err := s.GetProposal(wtx.Proposal)
	if err != nil {
		return nil, err
	}
	if !p.Open(s.header.Time) {
		return nil, ErrVotingClosed
	}
	addr := a.Address()
	if p.HasVoted(addr) {
		return nil, ErrDuplicateVote
	}
	if !checkOnly {
		p.Voters[addr] = wtx.Approve
		if wtx.Approve {
			p.YesVotes += 1
		} else {
			p.NoVotes += 1
		}
		s.touchProposal(p)
		a.OpenVotes += 1
		s.bumpNonce(a)
		event = &types.EventVote{
			Proposal:     p.Id,
			Voter:        a.Index,
			VoterAddress: addr,
			Approve:      wtx.Approve,
		}
	}
	return
}

func (s *State) GetProposal(id uint64) (p *types.Proposal, err error) {
	if id == 0 || id > s.proposalMaxIndex {
		return nil, ErrProposalNotFound
	}
	if p = s.proposals[id]; p != nil {
		return
	}
	key := fmt.Sprintf(KeyProposalBody, id)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrProposalNotFound
	}
	p = new(types.Proposal)
	err = json.Unmarshal(val, p)
	if err != nil {
		return nil, err
	}
	if p.Voters == nil {
		p.Voters = make(map[string]bool)
	}
	if p.RewardsDistributed == nil {
		p.RewardsDistributed = new(big.Int)
	}
	if p.TotalSlashed == nil {
		p.TotalSlashed = new(big.Int)
	}
	s.proposals[id] = p
	return
}

func (s *State) ProposalMax() uint64 {
	return s.proposalMaxIndex
}

// Proposals returns every proposal in id order.
func (s *State) Proposals() (list []*types.Proposal, err error) {
	list = make([]*types.Proposal, 0, s.proposalMaxIndex)
	for id := uint64(1); id <= s.proposalMaxIndex; id++ {
		p, err := s.GetProposal(id)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return
}

func (s *State) touchProposal(p *types.Proposal) {
	s.proposals[p.Id] = p
	s.modifiedProposals[p.Id] = true
}
