package handler

import (
	"context"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

type UploadDatasetTxHandler struct {
	logger cmtlog.Logger
}

func NewUploadDatasetTxHandler(logger cmtlog.Logger) (h *UploadDatasetTxHandler) {
	logger = logger.With("module", "uploadTx")
	h = &UploadDatasetTxHandler{
		logger: logger,
	}
	return
}

func (h *UploadDatasetTxHandler) handle(ctx context.Context, st *state.State, btx *tx.Tx, checkOnly bool) (res *ExecResult, err error) {
	wtx := btx.Tx.(*tx.UploadDatasetTx)
	acnt, err := st.Sender(btx, true)
	if err != nil {
		return nil, err
	}
	event, err := st.UploadDataset(wtx, acnt.Index, checkOnly)
	if err != nil {
		return nil, err
	}
	res = &ExecResult{}
	if event != nil {
		res = oneEvent(types.EncodeEventUpload(event))
	}
	return
}

func (h *UploadDatasetTxHandler) Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, true)
}

func (h *UploadDatasetTxHandler) Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error) {
	return h.handle(ctx, st, btx, false)
}
