package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: Cover the public listing order (status filter, then
	// featured/published_at/created_at) so paging does not sort the table.
	`CREATE INDEX IF NOT EXISTS idx_listings_public_order
	     ON listings(status, featured DESC, published_at DESC, created_at DESC)`,

	// Migration 2: Exact-match filters used by the browse page.
	`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_make ON listings(make)`,

	// Migration 3: Gallery lookups by listing in display order.
	`CREATE INDEX IF NOT EXISTS idx_images_listing_order
	     ON images(listing_id, sort_order)`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(db *sqlx.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
