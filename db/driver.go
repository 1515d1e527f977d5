package db

import "context"

// StorageDriver is the raw key/value layer a Store writes through. Drivers
// must report missing keys with an error that ErrIsNotFound recognises.
type StorageDriver interface {
	WriteKey(ctx context.Context, key string, data []byte) error
	GetKey(ctx context.Context, key string) ([]byte, error)
	ErrIsNotFound(error) bool
}
