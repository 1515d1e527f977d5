// Package contract holds what the hosting runtime hands to a contract while it
// executes a single call.
package contract

import (
	"context"
	"log/slog"

	"github.com/etnz/logfmt"

	"github.com/icook/tiny-flipper/identity"
)

// Env is the execution environment of one contract call. The caller is
// supplied by the runtime, never by the contract's own arguments.
type Env interface {
	Caller() identity.AccountID
	// DebugPrintln emits a diagnostic record. It has no effect on state.
	DebugPrintln(rec string)
}

// DebugRecord renders alternating key/value pairs as a logfmt record. Values
// are quoted and key order is decided by logfmt, not by the argument order. A
// trailing key without a value is dropped.
func DebugRecord(pairs ...string) string {
	rec := logfmt.Rec()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec = rec.Q(pairs[i], pairs[i+1])
	}
	return rec.String()
}

// CallEnv is the Env the engine builds for every call.
type CallEnv struct {
	ctx    context.Context
	caller identity.AccountID
	log    *slog.Logger
}

func NewCallEnv(ctx context.Context, caller identity.AccountID, log *slog.Logger) *CallEnv {
	if log == nil {
		log = slog.Default()
	}
	return &CallEnv{ctx: ctx, caller: caller, log: log}
}

func (e *CallEnv) Caller() identity.AccountID {
	return e.caller
}

func (e *CallEnv) DebugPrintln(rec string) {
	e.log.DebugContext(e.ctx, "contract debug", slog.String("record", rec), slog.String("caller", e.caller.String()))
}
