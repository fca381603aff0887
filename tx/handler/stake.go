package handler

import (
	"context"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

type StakeTxHandler struct {
	logger cmtlog.Logger
}

func NewStakeTxHandler(logger cmtlog.Logger) (h *StakeTxHandler) {
	logger = logger.With("module", "stakeTx")
	h = &StakeTxHandler{
		logger: logger,
	}
	return
}

func (h *StakeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.StakeTx)
	acnt, err := st.Sender(btx, false)
	if err != nil {
		return nil, err
	}
	event, err := st.Stake(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventStake(event))
	}
	return
}

func (h *StakeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *StakeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}

type UnstakeTxHandler struct {
	logger cmtlog.Logger
}

func NewUnstakeTxHandler(logger cmtlog.Logger) (h *UnstakeTxHandler) {
	logger = logger.With("module", "unstakeTx")
	h = &UnstakeTxHandler{
		logger: logger,
	}
	return
}

func (h *UnstakeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	acnt, err := st.Sender(btx, false)
	if err != nil {
		return nil, err
	}
	event, err := st.Unstake(acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventUnstake(event))
	}
	return
}

func (h *UnstakeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *UnstakeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}
