package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RevokeToken adds a token's JTI to the revocation list until it expires.
func RevokeToken(ctx context.Context, db *sqlx.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Expired tokens are rejected by signature checks anyway.
	if _, err := PurgeExpiredTokens(ctx, db, time.Now()); err != nil {
		return err
	}
	return nil
}

// PurgeExpiredTokens drops revocations whose tokens expired before now.
func PurgeExpiredTokens(ctx context.Context, db *sqlx.DB, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return result.RowsAffected()
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func IsTokenRevoked(ctx context.Context, db *sqlx.DB, jti string) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti,
	); err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}
