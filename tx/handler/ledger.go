package handler

import (
	"context"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

type DepositTxHandler struct {
	logger cmtlog.Logger
}

func NewDepositTxHandler(logger cmtlog.Logger) (h *DepositTxHandler) {
	logger = logger.With("module", "depositTx")
	h = &DepositTxHandler{
		logger: logger,
	}
	return
}

func (h *DepositTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.DepositTx)
	acnt, err := st.Sender(btx, true)
	if err != nil {
		return nil, err
	}
	event, err := st.Deposit(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventDeposit(event))
	}
	return
}

func (h *DepositTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *DepositTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}

type ClaimTxHandler struct {
	logger cmtlog.Logger
}

func NewClaimTxHandler(logger cmtlog.Logger) (h *ClaimTxHandler) {
	logger = logger.With("module", "claimTx")
	h = &ClaimTxHandler{
		logger: logger,
	}
	return
}

func (h *ClaimTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	acnt, err := st.Sender(btx, false)
	if err != nil {
		return nil, err
	}
	event, err := st.Claim(acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventClaim(event))
	}
	return
}

func (h *ClaimTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *ClaimTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}
