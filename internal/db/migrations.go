package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS charities (
    id                  INTEGER PRIMARY KEY,
    name                TEXT NOT NULL,
    email               TEXT NOT NULL,
    password_hash       TEXT,
    registration_number TEXT,
    postcode            TEXT NOT NULL,
    address             TEXT,
    phone               TEXT,
    contact_person      TEXT NOT NULL,
    contact_position    TEXT,
    status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'suspended')),
    balance_pence       INTEGER NOT NULL DEFAULT 0 CHECK (balance_pence >= 0),
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_charities_email
    ON charities(lower(email));

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    charity_id  INTEGER NOT NULL REFERENCES charities(id),
    item_code   TEXT NOT NULL UNIQUE,
    price_pence INTEGER NOT NULL CHECK (price_pence > 0),
    description TEXT,
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'sold', 'removed')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_status_created
    ON items(status, created_at DESC);

CREATE TABLE IF NOT EXISTS item_images (
    id       INTEGER PRIMARY KEY,
    item_id  INTEGER NOT NULL REFERENCES items(id),
    position INTEGER NOT NULL DEFAULT 0,
    data     BLOB NOT NULL,
    mime     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_item_images_item
    ON item_images(item_id, position);

CREATE TABLE IF NOT EXISTS revoked_sessions (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: index charity postcodes for prefix-filtered listing
	// queries on the browse page.
	`CREATE INDEX IF NOT EXISTS idx_charities_postcode ON charities(postcode)`,
}

// Migrate creates the schema and runs all migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
