package storage

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/store"
)

// DBPathPrefix is the URL path the web server serves database uploads from.
const DBPathPrefix = "/uploads/"

// DB stores images as BLOBs in the uploads table.
type DB struct {
	db *sqlx.DB
}

// NewDB returns a Storage backed by the application database.
func NewDB(db *sqlx.DB) *DB {
	return &DB{db: db}
}

// Put implements Storage.
func (s *DB) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := store.PutUpload(ctx, s.db, key, contentType, data); err != nil {
		return "", err
	}
	return DBPathPrefix + key, nil
}

// Delete implements Storage.
func (s *DB) Delete(ctx context.Context, key string) error {
	return store.DeleteUpload(ctx, s.db, key)
}

// Key implements Storage.
func (s *DB) Key(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, DBPathPrefix)
	if !ok || !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return key, true
}

// Open returns the stored object and its content type, or nil data if the
// key is unknown.
func (s *DB) Open(ctx context.Context, key string) ([]byte, string, error) {
	return store.GetUpload(ctx, s.db, key)
}
