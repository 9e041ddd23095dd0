package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shipments (
		id {pk},
		provider_id VARCHAR(255) NOT NULL UNIQUE,
		tracking_code VARCHAR(255) NOT NULL DEFAULT '',
		label_url TEXT NOT NULL DEFAULT '',
		from_name VARCHAR(255) NOT NULL DEFAULT '',
		from_street1 VARCHAR(255) NOT NULL DEFAULT '',
		from_street2 VARCHAR(255) NOT NULL DEFAULT '',
		from_city VARCHAR(255) NOT NULL DEFAULT '',
		from_state VARCHAR(50) NOT NULL DEFAULT '',
		from_zip VARCHAR(20) NOT NULL DEFAULT '',
		from_country VARCHAR(10) NOT NULL DEFAULT 'US',
		from_phone VARCHAR(50) NOT NULL DEFAULT '',
		to_name VARCHAR(255) NOT NULL DEFAULT '',
		to_street1 VARCHAR(255) NOT NULL DEFAULT '',
		to_street2 VARCHAR(255) NOT NULL DEFAULT '',
		to_city VARCHAR(255) NOT NULL DEFAULT '',
		to_state VARCHAR(50) NOT NULL DEFAULT '',
		to_zip VARCHAR(20) NOT NULL DEFAULT '',
		to_country VARCHAR(10) NOT NULL DEFAULT 'US',
		to_phone VARCHAR(50) NOT NULL DEFAULT '',
		carrier VARCHAR(100) NOT NULL DEFAULT '',
		service VARCHAR(100) NOT NULL DEFAULT '',
		cost {float} NOT NULL DEFAULT 0,
		method VARCHAR(50) NOT NULL,
		parcel_length {float},
		parcel_width {float},
		parcel_height {float},
		parcel_weight {float} NOT NULL DEFAULT 0,
		parcel_predefined VARCHAR(50),
		status VARCHAR(50) NOT NULL DEFAULT 'created',
		manifested VARCHAR(255),
		provider_created_at {ts},
		created_at {ts} NOT NULL,
		updated_at {ts}
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_tracking_code ON shipments (tracking_code)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_manifested ON shipments (manifested)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_created ON shipments (provider_created_at, created_at)`,
	`CREATE TABLE IF NOT EXISTS scanforms (
		id {pk},
		provider_id VARCHAR(255) NOT NULL UNIQUE,
		status VARCHAR(50) NOT NULL DEFAULT '',
		form_url TEXT NOT NULL DEFAULT '',
		tracking_codes {json},
		shipment_count INTEGER NOT NULL DEFAULT 0,
		created_at {ts} NOT NULL
	)`,
}

// Migrate creates the tables and indexes if they do not exist. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, db.dialect.ddl(stmt)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
