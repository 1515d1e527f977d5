// Package flipper is a contract holding one boolean that only its owner may
// flip.
package flipper

import (
	"strconv"

	"github.com/icook/tiny-flipper/contract"
	"github.com/icook/tiny-flipper/identity"
)

// Name is the code name the runtime registers this contract under.
const Name = "flipper"

// Error is the set of errors a Flipper call can be rejected with. The numeric
// value is the variant index used on the wire.
type Error uint8

const (
	// OnlyOwnerCanFlip is returned when a non-owner calls Flip.
	OnlyOwnerCanFlip Error = iota
)

func (e Error) Error() string {
	switch e {
	case OnlyOwnerCanFlip:
		return "OnlyOwnerCanFlip"
	}
	return "flipper error " + strconv.Itoa(int(e))
}

// Flipper is the contract storage. owner is fixed at construction.
type Flipper struct {
	value bool
	owner identity.AccountID
}

// New stores initValue and records the caller as owner.
func New(env contract.Env, initValue bool) *Flipper {
	return &Flipper{
		value: initValue,
		owner: env.Caller(),
	}
}

// Default is New with the value set to false.
func Default(env contract.Env) *Flipper {
	return New(env, false)
}

// Flip inverts the stored value. Only the owner may call it; anyone else gets
// OnlyOwnerCanFlip and the value is left alone.
func (f *Flipper) Flip(env contract.Env) error {
	if env.Caller() != f.owner {
		return OnlyOwnerCanFlip
	}

	f.value = !f.value
	env.DebugPrintln(contract.DebugRecord(
		"contract", Name,
		"event", "flip",
		"value", strconv.FormatBool(f.value),
	))
	return nil
}

// GetVal returns the stored value.
func (f *Flipper) GetVal() bool {
	return f.value
}

func (f *Flipper) Owner() identity.AccountID {
	return f.owner
}
