package identity

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Development accounts. Each one is its index repeated over all 32 bytes,
// which makes them easy to recognise in hex dumps.
var devAccounts = map[string]byte{
	"alice":   0x01,
	"bob":     0x02,
	"charlie": 0x03,
	"django":  0x04,
	"eve":     0x05,
	"frank":   0x06,
}

func repeated(b byte) AccountID {
	var id AccountID
	for i := range id {
		id[i] = b
	}
	return id
}

// DevAccount returns the well-known development account with the given name.
func DevAccount(name string) (AccountID, bool) {
	b, found := devAccounts[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return AccountID{}, false
	}
	return repeated(b), true
}

// DevAccountNames lists the development account names in order.
func DevAccountNames() []string {
	names := make([]string, 0, len(devAccounts))
	for name := range devAccounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return devAccounts[names[i]] < devAccounts[names[j]]
	})
	return names
}

func Alice() AccountID { return repeated(devAccounts["alice"]) }
func Bob() AccountID   { return repeated(devAccounts["bob"]) }

// ResolveAccount accepts either a development account name or a hex id.
func ResolveAccount(s string) (AccountID, error) {
	if id, ok := DevAccount(s); ok {
		return id, nil
	}
	id, err := ParseAccountID(s)
	if err != nil {
		return AccountID{}, errors.Wrapf(err, "resolve account %q", s)
	}
	return id, nil
}
