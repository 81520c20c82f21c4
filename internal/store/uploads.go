package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PutUpload stores an uploaded file under key.
func PutUpload(ctx context.Context, db *sqlx.DB, key, mime string, data []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO uploads (key, mime, size, data) VALUES (?, ?, ?, ?)`,
		key, mime, len(data), data,
	)
	if err != nil {
		return fmt.Errorf("storing upload: %w", err)
	}
	return nil
}

// GetUpload returns an uploaded file and its MIME type, or nil data if the
// key is unknown.
func GetUpload(ctx context.Context, db *sqlx.DB, key string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM uploads WHERE key = ?`, key,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting upload: %w", err)
	}
	return data, mime, nil
}

// DeleteUpload removes an uploaded file.
func DeleteUpload(ctx context.Context, db *sqlx.DB, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM uploads WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}
