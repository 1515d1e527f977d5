package flipper

import (
	"github.com/pkg/errors"

	"github.com/icook/tiny-flipper/identity"
)

// EncodedSize is the length of an encoded Flipper: one bool byte followed by
// the owner.
const EncodedSize = 1 + identity.AccountIDSize

var ErrMalformedState = errors.New("malformed flipper state")

func (f *Flipper) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EncodedSize)
	if f.value {
		buf[0] = 1
	}
	copy(buf[1:], f.owner[:])
	return buf, nil
}

func (f *Flipper) UnmarshalBinary(data []byte) error {
	if len(data) != EncodedSize {
		return errors.Wrapf(ErrMalformedState, "expected %d bytes, got %d", EncodedSize, len(data))
	}
	var value bool
	switch data[0] {
	case 0:
	case 1:
		value = true
	default:
		return errors.Wrapf(ErrMalformedState, "invalid bool byte 0x%02x", data[0])
	}
	owner, err := identity.AccountIDFromBytes(data[1:])
	if err != nil {
		return errors.Wrap(ErrMalformedState, err.Error())
	}
	f.value = value
	f.owner = owner
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (*Flipper, error) {
	f := &Flipper{}
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return f, nil
}
