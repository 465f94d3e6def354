package database

import (
	"context"
	"database/sql"
)

// Schema contains the DDL for every table the API touches, in dependency
// order. Statements are idempotent so the migrator can run repeatedly.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin','user')),
		name          TEXT NOT NULL,
		avatar        TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens (user_id) WHERE revoked_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS listings (
		id            BIGSERIAL PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT 'APARTMENT'
			CHECK (property_type IN ('APARTMENT','HOUSE','CONDO','TOWNHOUSE','LAND','COMMERCIAL','OTHER')),
		price         NUMERIC(12,2) NOT NULL DEFAULT 0,
		address       TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		state         TEXT,
		zip_code      TEXT,
		bedrooms      INT NOT NULL DEFAULT 0,
		bathrooms     NUMERIC(3,1) NOT NULL DEFAULT 1,
		square_feet   INT NOT NULL DEFAULT 0,
		year_built    INT,
		images        JSONB NOT NULL DEFAULT '[]',
		has_garage    BOOLEAN NOT NULL DEFAULT FALSE,
		has_parking   BOOLEAN NOT NULL DEFAULT FALSE,
		has_ac        BOOLEAN NOT NULL DEFAULT FALSE,
		has_pool      BOOLEAN NOT NULL DEFAULT FALSE,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_created ON listings (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS features (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		icon       TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS listing_features (
		listing_id BIGINT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		feature_id BIGINT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		PRIMARY KEY (listing_id, feature_id)
	)`,
}

// Migrate applies all schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
