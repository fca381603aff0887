package handler

import (
	"context"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

type PurchaseTxHandler struct {
	logger cmtlog.Logger
}

func NewPurchaseTxHandler(logger cmtlog.Logger) (h *PurchaseTxHandler) {
	logger = logger.With("module", "purchaseTx")
	h = &PurchaseTxHandler{
		logger: logger,
	}
	return
}

func (h *PurchaseTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.PurchaseTx)
	acnt, err := st.Sender(btx, false)
	if err != nil {
		return nil, err
	}
	event, err := st.PurchaseDataset(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventPurchase(event))
	}
	return
}

func (h *PurchaseTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *PurchaseTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}

type FavoriteTxHandler struct {
	logger cmtlog.Logger
}

func NewFavoriteTxHandler(logger cmtlog.Logger) (h *FavoriteTxHandler) {
	logger = logger.With("module", "favoriteTx")
	h = &FavoriteTxHandler{
		logger: logger,
	}
	return
}

func (h *FavoriteTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.FavoriteTx)
	acnt, err := st.Sender(btx, true)
	if err != nil {
		return nil, err
	}
	event, err := st.ToggleFavorite(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventFavorite(event))
	}
	return
}

func (h *FavoriteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *FavoriteTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}
