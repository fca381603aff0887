package types

import "math/big"

// Ledger-wide protocol parameters.
const (
	// CreatorInitialShares is minted to the creator when a dataset is
	// registered; the share table always sums to the dataset total.
	CreatorInitialShares uint64 = 100

	// ContributorRewardShares is minted to the proposer of an approved
	// contribution, diluting every existing holder proportionally.
	ContributorRewardShares uint64 = 20

	// SlashPercentage of a losing voter's stake is forfeited at resolution.
	SlashPercentage int64 = 10

	// VoteDurationSeconds is the voting window opened by a new proposal.
	VoteDurationSeconds int64 = 72 * 3600
)

// MinimumStake is the cumulative stake required to act as a verifier.
func MinimumStake() *big.Int {
	return Tokens(1000)
}
