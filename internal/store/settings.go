package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const jwtSecretKey = "jwt_secret"

// GetSetting returns the value stored under key and whether it exists.
func GetSetting(ctx context.Context, db *sqlx.DB, key string) (string, bool, error) {
	var value string
	err := db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func SetSetting(ctx context.Context, db *sqlx.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// GetJWTSecret returns the token signing secret, generating and storing one
// on first use. INSERT OR IGNORE followed by a read makes concurrent first
// starts agree on a single secret.
func GetJWTSecret(ctx context.Context, db *sqlx.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		jwtSecretKey, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	secret, ok, err := GetSetting(ctx, db, jwtSecretKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("jwt secret missing after insert")
	}
	return secret, nil
}
