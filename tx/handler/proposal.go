package handler

import (
	"context"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

type ProposeContributionTxHandler struct {
	logger cmtlog.Logger
}

func NewProposeContributionTxHandler(logger cmtlog.Logger) (h *ProposeContributionTxHandler) {
	logger = logger.With("module", "proposeTx")
	h = &ProposeContributionTxHandler{
		logger: logger,
	}
	return
}

func (h *ProposeContributionTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.ProposeContributionTx)
	acnt, err := st.Sender(btx, true)
	if err != nil {
		return nil, err
	}
	event, err := st.ProposeContribution(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventPropose(event))
	}
	return
}

func (h *ProposeContributionTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *ProposeContributionTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}

type VoteTxHandler struct {
	logger cmtlog.Logger
}

func NewVoteTxHandler(logger cmtlog.Logger) (h *VoteTxHandler) {
	logger = logger.With("module", "voteTx")
	h = &VoteTxHandler{
		logger: logger,
	}
	return
}

func (h *VoteTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.VoteTx)
	acnt, err := st.Sender(btx, false)
	if err != nil {
		return nil, err
	}
	event, err := st.VoteOnContribution(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventVote(event))
	}
	return
}

func (h *VoteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *VoteTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}

type ResolveTxHandler struct {
	logger cmtlog.Logger
}

func NewResolveTxHandler(logger cmtlog.Logger) (h *ResolveTxHandler) {
	logger = logger.With("module", "resolveTx")
	h = &ResolveTxHandler{
		logger: logger,
	}
	return
}

func (h *ResolveTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.ResolveTx)
	acnt, err := st.Sender(btx, true)
	if err != nil {
		return nil, err
	}
	event, err := st.ResolveContribution(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventResolve(event))
	}
	return
}

func (h *ResolveTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *ResolveTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}
