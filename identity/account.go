package identity

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AccountIDSize is the length in bytes of an account identifier.
const AccountIDSize = 32

var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID identifies a caller on the network. Contracts compare AccountIDs
// byte for byte; there is no notion of key rotation here.
type AccountID [AccountIDSize]byte

// String renders the id as 0x-prefixed lowercase hex.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAccountID decodes a hex account id, with or without the 0x prefix.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != hex.EncodedLen(AccountIDSize) {
		return id, errors.Wrapf(ErrInvalidAccountID, "expected %d hex characters, got %d", hex.EncodedLen(AccountIDSize), len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return AccountID{}, errors.Wrap(ErrInvalidAccountID, err.Error())
	}
	return id, nil
}

// AccountIDFromBytes copies b into an AccountID. b must be exactly
// AccountIDSize long.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	var id AccountID
	if len(b) != AccountIDSize {
		return id, errors.Wrapf(ErrInvalidAccountID, "expected %d bytes, got %d", AccountIDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// ContractID is assigned to a contract instance when it is deployed.
type ContractID uuid.UUID

func NewContractID() ContractID {
	return ContractID(uuid.New())
}

func ParseContractID(s string) (ContractID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ContractID{}, errors.WithStack(err)
	}
	return ContractID(u), nil
}

func (c ContractID) String() string {
	return uuid.UUID(c).String()
}
