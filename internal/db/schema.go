package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS listings (
    id               TEXT PRIMARY KEY,
    title            TEXT NOT NULL,
    make             TEXT NOT NULL,
    model            TEXT NOT NULL,
    year             INTEGER NOT NULL,
    price            INTEGER NOT NULL CHECK (price >= 0),
    price_negotiable INTEGER NOT NULL DEFAULT 0,
    mileage          INTEGER CHECK (mileage IS NULL OR mileage >= 0),
    fuel_type        TEXT NOT NULL CHECK (fuel_type IN ('PETROL', 'DIESEL', 'HYBRID', 'ELECTRIC', 'LPG')),
    transmission     TEXT NOT NULL CHECK (transmission IN ('AUTOMATIC', 'MANUAL')),
    body_type        TEXT NOT NULL CHECK (body_type IN ('SEDAN', 'SUV', 'HATCHBACK', 'COUPE', 'PICKUP', 'VAN', 'WAGON')),
    condition        TEXT NOT NULL CHECK (condition IN ('NEW', 'USED', 'CERTIFIED')),
    color            TEXT,
    city             TEXT NOT NULL,
    description      TEXT,
    contact_phone    TEXT,
    contact_whatsapp TEXT,
    featured         INTEGER NOT NULL DEFAULT 0,
    status           TEXT NOT NULL DEFAULT 'DRAFT' CHECK (status IN ('DRAFT', 'PUBLISHED', 'SOLD')),
    views            INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
    published_at     DATETIME,
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL,
    owner_id         INTEGER NOT NULL REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS images (
    id         TEXT PRIMARY KEY,
    listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    url        TEXT NOT NULL CHECK (url <> ''),
    is_primary INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL CHECK (sort_order >= 0),
    UNIQUE (listing_id, sort_order)
);

CREATE TABLE IF NOT EXISTS uploads (
    key        TEXT PRIMARY KEY,
    mime       TEXT NOT NULL,
    size       INTEGER NOT NULL,
    data       BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
