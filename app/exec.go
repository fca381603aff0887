package app

import (
	"context"
	"errors"

	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnsupportedTx = errors.New("unsupported tx")
)

// ExecTxResult reports the committed ledger position of one transaction.
type ExecTxResult struct {
	Height uint64        `json:"height"`
	Hash   common.Hash   `json:"hash"`
	Events []types.Event `json:"events"`
}

func (app *App) parseTx(txDat []byte, allowNonceGap bool) (btx *tx.Tx, err error) {
	btx, err = tx.UnmarshalTx(txDat)
	if err != nil {
		return
	}
	if btx != nil {
		_, err = app.db.Verify(btx, allowNonceGap)
	}
	return
}

// CheckTx runs admission checks on a throwaway staging layer. Nothing it
// stages survives, so a passing check commits nothing. It holds the executor
// mutex: staged layers read the shared tree, and the tree only mutates under
// this mutex.
func (app *App) CheckTx(ctx context.Context, txDat []byte) (err error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	btx, err := app.parseTx(txDat, true)
	if err != nil {
		return err
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		app.logger.Error("unsupported tx", "type", btx.Type)
		return ErrUnsupportedTx
	}
	st := app.db.NewState()
	st.SetTime(app.clock.Now().Unix())
	_, err = h.Check(ctx, st, btx)
	return err
}

// DeliverTx executes and commits one transaction. A handler error drops the
// whole staging layer, so failed transactions leave no partial writes. The
// tree itself is only touched inside Commit, under the StateDB write lock,
// so concurrent readers always see the last committed version.
func (app *App) DeliverTx(ctx context.Context, txDat []byte) (res *ExecTxResult, err error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	btx, err := app.parseTx(txDat, false)
	if err != nil {
		return nil, err
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		app.logger.Error("unsupported tx", "type", btx.Type)
		return nil, ErrUnsupportedTx
	}
	st := app.db.NewState()
	st.SetTime(app.clock.Now().Unix())
	result, err := h.Process(ctx, st, btx)
	if err != nil {
		app.logger.Info("tx rejected", "type", btx.Type, "err", err)
		return nil, err
	}
	hash, err := app.db.Commit(st)
	if err != nil {
		app.logger.Error("state commit fail", "err", err)
		return nil, err
	}
	app.publish(st.Header().Height, result.Events)
	app.logger.Info("tx committed", "type", btx.Type, "height", st.Header().Height)
	return &ExecTxResult{
		Height: st.Header().Height,
		Hash:   hash,
		Events: result.Events,
	}, nil
}

// InitChain seeds the ledger from the genesis document. Replays are ignored
// once a height has been committed.
func (app *App) InitChain(gen *types.GenesisDoc) (err error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	header := app.db.Header()
	if len(header.Hash) != 0 {
		return nil
	}
	st := app.db.NewState()
	st.SetChainId(gen.ChainID)
	st.SetTime(gen.GenesisTime.Unix())
	for _, ga := range gen.Accounts {
		acnt := state.NewAccount(ga.PubKey)
		acnt.Name = ga.Name
		if ga.Balance != nil {
			acnt.Balance.Set(ga.Balance)
		}
		if ga.Stake != nil {
			acnt.Stake.Set(ga.Stake)
		}
		err = st.AddAccount(acnt)
		if err != nil {
			app.logger.Error("init chain add account fail", "err", err)
			return err
		}
	}
	_, err = app.db.Commit(st)
	if err != nil {
		app.logger.Error("init chain commit fail", "err", err)
		return err
	}
	app.logger.Info("chain initialized", "chainId", gen.ChainID, "accounts", len(gen.Accounts))
	return nil
}
