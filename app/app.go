package app

import (
	"sync"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/config"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/tx/handler"
	"github.com/curatenet/datamarket/types"
	"github.com/facebookgo/clock"
)

// App is the single-writer ledger executor. Every transaction runs under one
// mutex against a fresh staging layer and commits as its own version, so
// submission order is execution order and there is nothing to replay or merge.
type App struct {
	mtx sync.Mutex

	cfg    *config.Config
	logger cmtlog.Logger
	clock  clock.Clock

	db      *state.StateDB
	txHdlrs map[tx.TxType]handler.TxHandler

	subMtx sync.Mutex
	subs   []chan CommittedEvent
}

func NewApp(cfg *config.Config, logger cmtlog.Logger) (app *App, err error) {
	return newApp(cfg, logger, clock.New())
}

func newApp(cfg *config.Config, logger cmtlog.Logger, cl clock.Clock) (app *App, err error) {
	logger = logger.With("module", "app")

	db, err := state.NewStateDB(cfg.DataDir(), logger)
	if err != nil {
		return nil, err
	}

	app = &App{
		cfg:     cfg,
		logger:  logger,
		clock:   cl,
		db:      db,
		txHdlrs: make(map[tx.TxType]handler.TxHandler),
	}
	app.registerTxHandler()
	return
}

func (app *App) registerTxHandler() {
	app.txHdlrs = map[tx.TxType]handler.TxHandler{
		tx.TxTypeDeposit:  handler.NewDepositTxHandler(app.logger),
		tx.TxTypeUpload:   handler.NewUploadDatasetTxHandler(app.logger),
		tx.TxTypePropose:  handler.NewProposeContributionTxHandler(app.logger),
		tx.TxTypeVote:     handler.NewVoteTxHandler(app.logger),
		tx.TxTypeResolve:  handler.NewResolveTxHandler(app.logger),
		tx.TxTypeStake:    handler.NewStakeTxHandler(app.logger),
		tx.TxTypeUnstake:  handler.NewUnstakeTxHandler(app.logger),
		tx.TxTypePurchase: handler.NewPurchaseTxHandler(app.logger),
		tx.TxTypeClaim:    handler.NewClaimTxHandler(app.logger),
		tx.TxTypeFavorite: handler.NewFavoriteTxHandler(app.logger),
	}
}

func (app *App) DB() *state.StateDB {
	return app.db
}

func (app *App) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.subMtx.Lock()
	for _, ch := range app.subs {
		close(ch)
	}
	app.subs = nil
	app.subMtx.Unlock()
	app.logger.Info("app stopped")
}

// CommittedEvent pairs an event with the height it was committed at.
type CommittedEvent struct {
	Height uint64
	Event  types.Event
}

// Subscribe returns a channel receiving every event committed from now on.
// Slow consumers drop events rather than stall the executor.
func (app *App) Subscribe() <-chan CommittedEvent {
	app.subMtx.Lock()
	defer app.subMtx.Unlock()
	ch := make(chan CommittedEvent, 1024)
	app.subs = append(app.subs, ch)
	return ch
}

func (app *App) publish(height uint64, events []types.Event) {
	app.subMtx.Lock()
	defer app.subMtx.Unlock()
	for _, e := range events {
		for _, ch := range app.subs {
			select {
			case ch <- CommittedEvent{Height: height, Event: e}:
			default:
			}
		}
	}
}
