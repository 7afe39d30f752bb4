// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaTimeout bounds schema creation at startup.
const schemaTimeout = 60 * time.Second

// schemaContext returns a context for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

// getTableCreationQueries returns the idempotent DDL for the registry.
// Sequences back the serial integer ids that form the public API contract.
func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS streams_id_seq`,

		`CREATE TABLE IF NOT EXISTS streams (
			id BIGINT PRIMARY KEY DEFAULT nextval('streams_id_seq'),
			name VARCHAR NOT NULL,
			url VARCHAR NOT NULL,
			description VARCHAR,
			category VARCHAR NOT NULL DEFAULT 'Police',
			status VARCHAR NOT NULL DEFAULT 'inactive',
			latitude DOUBLE,
			longitude DOUBLE,
			city VARCHAR,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE SEQUENCE IF NOT EXISTS transcriptions_id_seq`,

		`CREATE TABLE IF NOT EXISTS transcriptions (
			id BIGINT PRIMARY KEY DEFAULT nextval('transcriptions_id_seq'),
			stream_id BIGINT NOT NULL,
			content VARCHAR NOT NULL,
			confidence INTEGER,
			latitude DOUBLE,
			longitude DOUBLE,
			address VARCHAR,
			call_type VARCHAR,
			timestamp TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transcriptions_stream_time
			ON transcriptions (stream_id, timestamp)`,
	}
}

// createTables executes the schema DDL under the schema timeout.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}
