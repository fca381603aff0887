package types

import (
	"fmt"
	"math/big"
)

// ContributionType classifies what a proposed contribution changes about a
// dataset. Stored as a tagged value, matched exhaustively.
type ContributionType uint8

const (
	ContributionUnknown ContributionType = iota
	ContributionCleaning
	ContributionAddition
	ContributionAnnotation
	ContributionValidation
	ContributionDocumentation
)

func (t ContributionType) String() string {
	switch t {
	case ContributionCleaning:
		return "cleaning"
	case ContributionAddition:
		return "addition"
	case ContributionAnnotation:
		return "annotation"
	case ContributionValidation:
		return "validation"
	case ContributionDocumentation:
		return "documentation"
	default:
		return "unknown"
	}
}

func ParseContributionType(s string) (ContributionType, error) {
	switch s {
	case "cleaning":
		return ContributionCleaning, nil
	case "addition":
		return ContributionAddition, nil
	case "annotation":
		return ContributionAnnotation, nil
	case "validation":
		return ContributionValidation, nil
	case "documentation":
		return ContributionDocumentation, nil
	default:
		return ContributionUnknown, fmt.Errorf("unknown contribution type %q", s)
	}
}

func (t ContributionType) Valid() bool {
	return t >= ContributionCleaning && t <= ContributionDocumentation
}

// Dataset is the registry record for one community-maintained dataset. The
// locator is an opaque content reference supplied by callers; the ledger
// never fetches or interprets it. Shares maps holder address to share
// points and sums to TotalShares at all times.
type Dataset struct {
	Id                 uint64            `json:"id"`
	Creator            uint64            `json:"creator"`
	CreatorAddress     string            `json:"creator_address"`
	Locator            string            `json:"locator"`
	Price              *big.Int          `json:"price"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	MimeType           string            `json:"mime_type"`
	Size               uint64            `json:"size"`
	Category           string            `json:"category"`
	CreatedAt          int64             `json:"created_at"`
	ContributionReward *big.Int          `json:"contribution_reward"`
	VerificationReward *big.Int          `json:"verification_reward"`
	RewardPool         *big.Int          `json:"reward_pool"`
	TotalShares        uint64            `json:"total_shares"`
	Shares             map[string]uint64 `json:"shares"`
	TotalPurchases     uint64            `json:"total_purchases"`
}
