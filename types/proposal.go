package types

import "math/big"

type Proposal struct {
	Id              uint64           `json:"id"`
	Dataset         uint64           `json:"dataset"`
	Proposer        uint64           `json:"proposer"`
	ProposerAddress string           `json:"proposer_address"`
	Locator         string           `json:"locator"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            ContributionType `json:"type"`
	CreatedAt       int64            `json:"created_at"`
	VoteDeadline    int64            `json:"vote_deadline"`
	YesVotes        uint64           `json:"yes_votes"`
	NoVotes         uint64           `json:"no_votes"`
	Resolved        bool             `json:"resolved"`
	Status          ProposalStatus   `json:"status"`
	ResolvedAt      int64            `json:"resolved_at,omitempty"`

	// Voters maps verifier address to vote choice. Each verifier appears
	// at most once; YesVotes+NoVotes == len(Voters).
	Voters map[string]bool `json:"voters"`

	// Resolution record, set exactly once.
	RewardsDistributed *big.Int `json:"rewards_distributed,omitempty"`
	TotalSlashed       *big.Int `json:"total_slashed,omitempty"`
}

type ProposalStatus uint64

const (
	ProposalStatusVoting   ProposalStatus = 1
	ProposalStatusApproved ProposalStatus = 2
	ProposalStatusRejected ProposalStatus = 3
)

// Open reports whether the proposal still accepts votes at the given time.
func (p *Proposal) Open(now int64) bool {
	return !p.Resolved && now <= p.VoteDeadline
}

// Closed reports whether the voting window has passed but no resolution has
// been committed yet. Closed is derived, never stored.
func (p *Proposal) Closed(now int64) bool {
	return !p.Resolved && now > p.VoteDeadline
}

func (p *Proposal) HasVoted(addr string) bool {
	_, ok := p.Voters[addr]
	return ok
}
