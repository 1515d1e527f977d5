package mem

import (
	"context"
	"errors"
	"sync"

	"github.com/icook/tiny-flipper/db"
)

var _ db.StorageDriver = (*Store)(nil)

var errNotFound = errors.New("not found")

// Store implements a minimal in memory StorageDriver, used by tests and by
// the server when persistence is not wanted.
type Store struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemStore() *Store {
	return &Store{
		store: map[string][]byte{},
	}
}

func (m *Store) WriteKey(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = buf
	return nil
}

func (m *Store) GetKey(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, found := m.store[key]
	if !found {
		return nil, errNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Store) ErrIsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}
