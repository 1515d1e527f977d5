package contract

import "github.com/icook/tiny-flipper/identity"

// TestEnv is an Env for unit tests. Its caller starts as alice and can be
// switched between calls with SetCaller.
type TestEnv struct {
	caller identity.AccountID
	Debug  []string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{caller: identity.Alice()}
}

func (e *TestEnv) SetCaller(caller identity.AccountID) {
	e.caller = caller
}

func (e *TestEnv) Caller() identity.AccountID {
	return e.caller
}

func (e *TestEnv) DebugPrintln(rec string) {
	e.Debug = append(e.Debug, rec)
}
