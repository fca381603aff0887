package service

import (
	"context"
	"errors"
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/app"
	"github.com/curatenet/datamarket/types"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// ActivityIndexer projects committed ledger events into sqlite rows for the
// feed and purchase-history endpoints.
type ActivityIndexer struct {
	logger        cmtlog.Logger
	db            *gorm.DB
	events        <-chan app.CommittedEvent
	eventHandlers map[string]eventHandler
}

type eventHandler func(ev app.CommittedEvent)

func NewActivityIndexer(logger cmtlog.Logger, dbPath string, events <-chan app.CommittedEvent) (*ActivityIndexer, error) {
	logger = logger.With("module", "indexer")
	logger.Info("NewActivityIndexer", "dbPath", dbPath)
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Activity{}, &PurchaseReceipt{}, &IndexHeight{}).Error; err != nil {
		return nil, err
	}
	h := IndexHeight{Id: 1}
	if err = db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c := &ActivityIndexer{
		logger: logger,
		db:     db,
		events: events,
	}
	c.eventHandlers = map[string]eventHandler{
		types.EventDepositType:  c.handleEventDeposit,
		types.EventUploadType:   c.handleEventUpload,
		types.EventProposeType:  c.handleEventPropose,
		types.EventVoteType:     c.handleEventVote,
		types.EventResolveType:  c.handleEventResolve,
		types.EventStakeType:    c.handleEventStake,
		types.EventUnstakeType:  c.handleEventUnstake,
		types.EventPurchaseType: c.handleEventPurchase,
		types.EventClaimType:    c.handleEventClaim,
		types.EventFavoriteType: c.handleEventFavorite,
	}
	return c, nil
}

func (c *ActivityIndexer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			if h, exist := c.eventHandlers[ev.Event.Type]; exist {
				h(ev)
			}
			c.setHeight(ev.Height)
		}
	}
}

func (c *ActivityIndexer) Close() error {
	return c.db.Close()
}

func (c *ActivityIndexer) setHeight(height uint64) {
	if err := c.db.Save(&IndexHeight{Id: 1, Height: height}).Error; err != nil {
		c.logger.Error("save index height fail", "err", err)
	}
}

func (c *ActivityIndexer) saveActivity(row *Activity) {
	if err := c.db.Create(row).Error; err != nil {
		c.logger.Error("save activity fail", "type", row.Type, "err", err)
	}
}

func (c *ActivityIndexer) handleEventDeposit(ce app.CommittedEvent) {
	ev := types.DecodeEventDeposit(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Account,
		Address: ev.Address,
		Amount:  types.AmountString(ev.Amount),
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) handleEventUpload(ce app.CommittedEvent) {
	ev := types.DecodeEventUpload(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Creator,
		Address: ev.CreatorAddress,
		Dataset: ev.Dataset,
		Amount:  types.AmountString(ev.Price),
		Detail:  ev.Title,
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) handleEventPropose(ce app.CommittedEvent) {
	ev := types.DecodeEventPropose(ce.Event)
	c.saveActivity(&Activity{
		Type:     ce.Event.Type,
		Account:  ev.Proposer,
		Address:  ev.ProposerAddress,
		Dataset:  ev.Dataset,
		Proposal: ev.Proposal,
		Detail:   ev.Type,
		Height:   ce.Height,
	})
}

func (c *ActivityIndexer) handleEventVote(ce app.CommittedEvent) {
	ev := types.DecodeEventVote(ce.Event)
	c.saveActivity(&Activity{
		Type:     ce.Event.Type,
		Account:  ev.Voter,
		Address:  ev.VoterAddress,
		Proposal: ev.Proposal,
		Detail:   fmt.Sprintf("approve=%v", ev.Approve),
		Height:   ce.Height,
	})
}

func (c *ActivityIndexer) handleEventResolve(ce app.CommittedEvent) {
	ev := types.DecodeEventResolve(ce.Event)
	c.saveActivity(&Activity{
		Type:     ce.Event.Type,
		Dataset:  ev.Dataset,
		Proposal: ev.Proposal,
		Amount:   types.AmountString(ev.RewardsDistributed),
		Detail:   fmt.Sprintf("approved=%v slashed=%s", ev.Approved, types.AmountString(ev.TotalSlashed)),
		Height:   ce.Height,
	})
}

func (c *ActivityIndexer) handleEventStake(ce app.CommittedEvent) {
	ev := types.DecodeEventStake(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Account,
		Address: ev.Address,
		Amount:  types.AmountString(ev.Amount),
		Detail:  fmt.Sprintf("total=%s", types.AmountString(ev.Total)),
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) handleEventUnstake(ce app.CommittedEvent) {
	ev := types.DecodeEventUnstake(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Account,
		Address: ev.Address,
		Amount:  types.AmountString(ev.Amount),
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) handleEventPurchase(ce app.CommittedEvent) {
	ev := types.DecodeEventPurchase(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Buyer,
		Address: ev.BuyerAddress,
		Dataset: ev.Dataset,
		Amount:  types.AmountString(ev.Price),
		Height:  ce.Height,
	})
	receipt := &PurchaseReceipt{
		Dataset:      ev.Dataset,
		Buyer:        ev.Buyer,
		BuyerAddress: ev.BuyerAddress,
		Price:        types.AmountString(ev.Price),
		Height:       ce.Height,
	}
	if err := c.db.Create(receipt).Error; err != nil {
		c.logger.Error("save purchase receipt fail", "err", err)
	}
}

func (c *ActivityIndexer) handleEventClaim(ce app.CommittedEvent) {
	ev := types.DecodeEventClaim(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Account,
		Address: ev.Address,
		Amount:  types.AmountString(ev.Amount),
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) handleEventFavorite(ce app.CommittedEvent) {
	ev := types.DecodeEventFavorite(ce.Event)
	c.saveActivity(&Activity{
		Type:    ce.Event.Type,
		Account: ev.Account,
		Address: ev.Address,
		Dataset: ev.Dataset,
		Detail:  fmt.Sprintf("marked=%v", ev.Marked),
		Height:  ce.Height,
	})
}

func (c *ActivityIndexer) getActivities(address string, page int, pageSize int) (rows []Activity, total uint64, err error) {
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}
	if page < 0 {
		page = 0
	}
	q := c.db.Model(&Activity{})
	if address != "" {
		q = q.Where("address = ?", address)
	}
	if err = q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = q.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (c *ActivityIndexer) getPurchases(dataset uint64, buyer string, page int, pageSize int) (rows []PurchaseReceipt, total uint64, err error) {
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}
	if page < 0 {
		page = 0
	}
	q := c.db.Model(&PurchaseReceipt{})
	if dataset != 0 {
		q = q.Where("dataset = ?", dataset)
	}
	if buyer != "" {
		q = q.Where("buyer_address = ?", buyer)
	}
	if err = q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = q.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
