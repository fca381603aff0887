package handler

import (
	"context"

	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
)

// ExecResult carries the events a committed transaction emitted.
type ExecResult struct {
	Events []types.Event
}

// TxHandler executes one transaction type against a staged state. Check runs
// the same validations without mutating; Process mutates and reports events.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error)
	Process(ctx context.Context, st *state.State, btx *tx.Tx) (res *ExecResult, err error)
}

func oneEvent(e types.Event) *ExecResult {
	return &ExecResult{Events: []types.Event{e}}
}
