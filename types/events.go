package types

import (
	"fmt"
	"math/big"
	"strconv"
)

// Events are emitted by the state machine for every committed mutation and
// consumed by the activity indexer.

const (
	EventDepositType  = "deposit"
	EventUploadType   = "upload_dataset"
	EventProposeType  = "propose_contribution"
	EventVoteType     = "vote"
	EventResolveType  = "resolve_contribution"
	EventStakeType    = "stake"
	EventUnstakeType  = "unstake"
	EventPurchaseType = "purchase"
	EventClaimType    = "claim"
	EventFavoriteType = "favourite"
)

type Event struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}

type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Index bool   `json:"index"`
}

func (e Event) attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e Event) uintAttr(key string) uint64 {
	v, ok := e.attr(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (e Event) amountAttr(key string) *big.Int {
	v, ok := e.attr(key)
	if !ok {
		return ZeroAmount()
	}
	n, ok := ParseAmount(v)
	if !ok {
		return ZeroAmount()
	}
	return n
}

type EventDeposit struct {
	Account uint64   `json:"account"`
	Address string   `json:"address"`
	Amount  *big.Int `json:"amount"`
}

func EncodeEventDeposit(event *EventDeposit) Event {
	return Event{
		Type: EventDepositType,
		Attributes: []EventAttribute{
			{Key: "account", Value: fmt.Sprintf("%v", event.Account), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: AmountString(event.Amount), Index: false},
		},
	}
}

func DecodeEventDeposit(e Event) *EventDeposit {
	addr, _ := e.attr("address")
	return &EventDeposit{
		Account: e.uintAttr("account"),
		Address: addr,
		Amount:  e.amountAttr("amount"),
	}
}

type EventUpload struct {
	Dataset        uint64   `json:"dataset"`
	Creator        uint64   `json:"creator"`
	CreatorAddress string   `json:"creator_address"`
	Title          string   `json:"title"`
	Price          *big.Int `json:"price"`
	RewardPool     *big.Int `json:"reward_pool"`
}

func EncodeEventUpload(event *EventUpload) Event {
	return Event{
		Type: EventUploadType,
		Attributes: []EventAttribute{
			{Key: "dataset", Value: fmt.Sprintf("%v", event.Dataset), Index: true},
			{Key: "creator", Value: fmt.Sprintf("%v", event.Creator), Index: true},
			{Key: "creatorAddress", Value: event.CreatorAddress, Index: false},
			{Key: "title", Value: event.Title, Index: false},
			{Key: "price", Value: AmountString(event.Price), Index: false},
			{Key: "rewardPool", Value: AmountString(event.RewardPool), Index: false},
		},
	}
}

func DecodeEventUpload(e Event) *EventUpload {
	addr, _ := e.attr("creatorAddress")
	title, _ := e.attr("title")
	return &EventUpload{
		Dataset:        e.uintAttr("dataset"),
		Creator:        e.uintAttr("creator"),
		CreatorAddress: addr,
		Title:          title,
		Price:          e.amountAttr("price"),
		RewardPool:     e.amountAttr("rewardPool"),
	}
}

type EventPropose struct {
	Proposal        uint64 `json:"proposal"`
	Dataset         uint64 `json:"dataset"`
	Proposer        uint64 `json:"proposer"`
	ProposerAddress string `json:"proposer_address"`
	Type            string `json:"contribution_type"`
	VoteDeadline    int64  `json:"vote_deadline"`
}

func EncodeEventPropose(event *EventPropose) Event {
	return Event{
		Type: EventProposeType,
		Attributes: []EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "dataset", Value: fmt.Sprintf("%v", event.Dataset), Index: true},
			{Key: "proposer", Value: fmt.Sprintf("%v", event.Proposer), Index: true},
			{Key: "proposerAddress", Value: event.ProposerAddress, Index: false},
			{Key: "contributionType", Value: event.Type, Index: false},
			{Key: "voteDeadline", Value: fmt.Sprintf("%v", event.VoteDeadline), Index: false},
		},
	}
}

func DecodeEventPropose(e Event) *EventPropose {
	addr, _ := e.attr("proposerAddress")
	ct, _ := e.attr("contributionType")
	deadline, _ := e.attr("voteDeadline")
	d, _ := strconv.ParseInt(deadline, 10, 64)
	return &EventPropose{
		Proposal:        e.uintAttr("proposal"),
		Dataset:         e.uintAttr("dataset"),
		Proposer:        e.uintAttr("proposer"),
		ProposerAddress: addr,
		Type:            ct,
		VoteDeadline:    d,
	}
}

type EventVote struct {
	Proposal     uint64 `json:"proposal"`
	Voter        uint64 `json:"voter"`
	VoterAddress string `json:"voter_address"`
	Approve      bool   `json:"approve"`
}

func EncodeEventVote(event *EventVote) Event {
	return Event{
		Type: EventVoteType,
		Attributes: []EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "voter", Value: fmt.Sprintf("%v", event.Voter), Index: true},
			{Key: "voterAddress", Value: event.VoterAddress, Index: false},
			{Key: "approve", Value: strconv.FormatBool(event.Approve), Index: false},
		},
	}
}

func DecodeEventVote(e Event) *EventVote {
	addr, _ := e.attr("voterAddress")
	approve, _ := e.attr("approve")
	b, _ := strconv.ParseBool(approve)
	return &EventVote{
		Proposal:     e.uintAttr("proposal"),
		Voter:        e.uintAttr("voter"),
		VoterAddress: addr,
		Approve:      b,
	}
}

type EventResolve struct {
	Proposal           uint64   `json:"proposal"`
	Dataset            uint64   `json:"dataset"`
	Approved           bool     `json:"approved"`
	RewardsDistributed *big.Int `json:"rewards_distributed"`
	TotalSlashed       *big.Int `json:"total_slashed"`
}

func EncodeEventResolve(event *EventResolve) Event {
	return Event{
		Type: EventResolveType,
		Attributes: []EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "dataset", Value: fmt.Sprintf("%v", event.Dataset), Index: true},
			{Key: "approved", Value: strconv.FormatBool(event.Approved), Index: false},
			{Key: "rewardsDistributed", Value: AmountString(event.RewardsDistributed), Index: false},
			{Key: "totalSlashed", Value: AmountString(event.TotalSlashed), Index: false},
		},
	}
}

func DecodeEventResolve(e Event) *EventResolve {
	approved, _ := e.attr("approved")
	b, _ := strconv.ParseBool(approved)
	return &EventResolve{
		Proposal:           e.uintAttr("proposal"),
		Dataset:            e.uintAttr("dataset"),
		Approved:           b,
		RewardsDistributed: e.amountAttr("rewardsDistributed"),
		TotalSlashed:       e.amountAttr("totalSlashed"),
	}
}

type EventStake struct {
	Account uint64   `json:"account"`
	Address string   `json:"address"`
	Amount  *big.Int `json:"amount"`
	Total   *big.Int `json:"total"`
}

func EncodeEventStake(event *EventStake) Event {
	return Event{
		Type: EventStakeType,
		Attributes: []EventAttribute{
			{Key: "account", Value: fmt.Sprintf("%v", event.Account), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: AmountString(event.Amount), Index: false},
			{Key: "total", Value: AmountString(event.Total), Index: false},
		},
	}
}

func DecodeEventStake(e Event) *EventStake {
	addr, _ := e.attr("address")
	return &EventStake{
		Account: e.uintAttr("account"),
		Address: addr,
		Amount:  e.amountAttr("amount"),
		Total:   e.amountAttr("total"),
	}
}

type EventUnstake struct {
	Account uint64   `json:"account"`
	Address string   `json:"address"`
	Amount  *big.Int `json:"amount"`
}

func EncodeEventUnstake(event *EventUnstake) Event {
	return Event{
		Type: EventUnstakeType,
		Attributes: []EventAttribute{
			{Key: "account", Value: fmt.Sprintf("%v", event.Account), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: AmountString(event.Amount), Index: false},
		},
	}
}

func DecodeEventUnstake(e Event) *EventUnstake {
	addr, _ := e.attr("address")
	return &EventUnstake{
		Account: e.uintAttr("account"),
		Address: addr,
		Amount:  e.amountAttr("amount"),
	}
}

type EventPurchase struct {
	Dataset      uint64   `json:"dataset"`
	Buyer        uint64   `json:"buyer"`
	BuyerAddress string   `json:"buyer_address"`
	Price        *big.Int `json:"price"`
}

func EncodeEventPurchase(event *EventPurchase) Event {
	return Event{
		Type: EventPurchaseType,
		Attributes: []EventAttribute{
			{Key: "dataset", Value: fmt.Sprintf("%v", event.Dataset), Index: true},
			{Key: "buyer", Value: fmt.Sprintf("%v", event.Buyer), Index: true},
			{Key: "buyerAddress", Value: event.BuyerAddress, Index: false},
			{Key: "price", Value: AmountString(event.Price), Index: false},
		},
	}
}

func DecodeEventPurchase(e Event) *EventPurchase {
	addr, _ := e.attr("buyerAddress")
	return &EventPurchase{
		Dataset:      e.uintAttr("dataset"),
		Buyer:        e.uintAttr("buyer"),
		BuyerAddress: addr,
		Price:        e.amountAttr("price"),
	}
}

type EventClaim struct {
	Account uint64   `json:"account"`
	Address string   `json:"address"`
	Amount  *big.Int `json:"amount"`
}

func EncodeEventClaim(event *EventClaim) Event {
	return Event{
		Type: EventClaimType,
		Attributes: []EventAttribute{
			{Key: "account", Value: fmt.Sprintf("%v", event.Account), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: AmountString(event.Amount), Index: false},
		},
	}
}

func DecodeEventClaim(e Event) *EventClaim {
	addr, _ := e.attr("address")
	return &EventClaim{
		Account: e.uintAttr("account"),
		Address: addr,
		Amount:  e.amountAttr("amount"),
	}
}

type EventFavorite struct {
	Dataset uint64 `json:"dataset"`
	Account uint64 `json:"account"`
	Address string `json:"address"`
	Marked  bool   `json:"marked"`
}

func EncodeEventFavorite(event *EventFavorite) Event {
	return Event{
		Type: EventFavoriteType,
		Attributes: []EventAttribute{
			{Key: "dataset", Value: fmt.Sprintf("%v", event.Dataset), Index: true},
			{Key: "account", Value: fmt.Sprintf("%v", event.Account), Index: true},
			{Key: "address", Value: event.Address, Index: false},
			{Key: "marked", Value: strconv.FormatBool(event.Marked), Index: false},
		},
	}
}

func DecodeEventFavorite(e Event) *EventFavorite {
	addr, _ := e.attr("address")
	marked, _ := e.attr("marked")
	b, _ := strconv.ParseBool(marked)
	return &EventFavorite{
		Dataset: e.uintAttr("dataset"),
		Account: e.uintAttr("account"),
		Address: addr,
		Marked:  b,
	}
}
