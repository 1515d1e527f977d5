// Package sqlite is a SQLite-backed StorageDriver.
package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/icook/tiny-flipper/db"
	"github.com/icook/tiny-flipper/storage/sqlite/migrations"
)

var _ db.StorageDriver = (*Store)(nil)

// Store keeps keys in a single kv table.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	// A :memory: database lives and dies with its connection.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) WriteKey(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "write key %s", key)
	}
	return nil
}

func (s *Store) GetKey(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM kv WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) ErrIsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
