package state

import (
	"math/big"
	"sort"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// ResolveContribution settles a proposal whose voting window has closed.
// Majority yes approves; a tie rejects. Voters on the losing side are slashed
// a fixed percentage of their stake, which is split evenly among the winning
// voters on top of the dataset's verification reward. Approval mints
// contributor shares, pays the contribution reward out of the dataset pool
// (capped at what the pool still holds) and swaps in the proposed locator.
// Runs exactly once per proposal regardless of who submits it.
func (s *State) ResolveContribution(wtx *tx.ResolveTx, sender uint64, checkOnly bool) (event *types.EventResolve, err error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	p, err := s.GetProposal(wtx.Proposal)
	if err != nil {
		return nil, err
	}
	if p.Resolved {
		return nil, ErrAlreadyResolved
	}
	if !p.Closed(s.header.Time) {
		return nil, ErrVotingStillOpen
	}
	if checkOnly {
		return nil, nil
	}
	ds, err := s.GetDataset(p.Dataset)
	if err != nil {
		return nil, err
	}

	approved := p.YesVotes > p.NoVotes

	// Iterate voters in address order so every replay lands on the same hash.
	addrs := make([]string, 0, len(p.Voters))
	for addr := range p.Voters {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	winners := make([]string, 0, len(addrs))
	totalSlashed := new(big.Int)
	for _, addr := range addrs {
		if p.Voters[addr] == approved {
			winners = append(winners, addr)
			continue
		}
		voter, err := s.FindAccount(addr)
		if err != nil {
			return nil, err
		}
		if voter == nil {
			return nil, ErrAccountNotFound
		}
		cut := new(big.Int).Mul(voter.Stake, big.NewInt(types.SlashPercentage))
		cut.Div(cut, big.NewInt(100))
		voter.Stake.Sub(voter.Stake, cut)
		totalSlashed.Add(totalSlashed, cut)
		s.touchAccount(voter)
	}

	distributed := new(big.Int)
	if len(winners) > 0 {
		// split per winning voter, not per staked amount
		share := new(big.Int).Div(totalSlashed, big.NewInt(int64(len(winners))))
		for _, addr := range winners {
			voter, err := s.FindAccount(addr)
			if err != nil {
				return nil, err
			}
			if voter == nil {
				return nil, ErrAccountNotFound
			}
			voter.Reward(ds.VerificationReward)
			voter.Reward(share)
			distributed.Add(distributed, ds.VerificationReward)
			s.touchAccount(voter)
		}
		// integer division remainder
		dust := new(big.Int).Mul(share, big.NewInt(int64(len(winners))))
		dust.Sub(totalSlashed, dust)
		s.header.SlashPool.Add(s.header.SlashPool, dust)
	} else {
		s.header.SlashPool.Add(s.header.SlashPool, totalSlashed)
	}

	// Every vote obligation opened by this proposal is released, win or lose.
	for _, addr := range addrs {
		voter, err := s.FindAccount(addr)
		if err != nil {
			return nil, err
		}
		if voter == nil {
			return nil, ErrAccountNotFound
		}
		voter.OpenVotes -= 1
		s.touchAccount(voter)
	}

	if approved {
		proposer, err := s.GetAccount(p.Proposer)
		if err != nil {
			return nil, err
		}
		ds.Shares[p.ProposerAddress] += types.ContributorRewardShares
		ds.TotalShares += types.ContributorRewardShares
		reward := new(big.Int).Set(ds.ContributionReward)
		if ds.RewardPool.Cmp(reward) < 0 {
			reward.Set(ds.RewardPool)
		}
		ds.RewardPool.Sub(ds.RewardPool, reward)
		proposer.Reward(reward)
		distributed.Add(distributed, reward)
		ds.Locator = p.Locator
		s.touchAccount(proposer)
		s.touchDataset(ds)
		p.Status = types.ProposalStatusApproved
	} else {
		p.Status = types.ProposalStatusRejected
	}

	p.Resolved = true
	p.ResolvedAt = s.header.Time
	p.RewardsDistributed = distributed
	p.TotalSlashed = totalSlashed
	s.touchProposal(p)

	// Re-fetch the caller; it may have been restaged above as a voter.
	a, err = s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	s.bumpNonce(a)
	event = &types.EventResolve{
		Proposal:           p.Id,
		Dataset:            p.Dataset,
		Approved:           approved,
		RewardsDistributed: new(big.Int).Set(distributed),
		TotalSlashed:       new(big.Int).Set(totalSlashed),
	}
	return
}
