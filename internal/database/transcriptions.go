// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dispatchmap/dispatchmap/internal/metrics"
	"github.com/dispatchmap/dispatchmap/internal/models"
)

const transcriptionColumns = "id, stream_id, content, confidence, latitude, longitude, address, call_type, timestamp"

// insertTranscriptionQuery runs on every monitor tick; it goes through the
// prepared statement cache.
const insertTranscriptionQuery = `INSERT INTO transcriptions
	(stream_id, content, confidence, latitude, longitude, address, call_type, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

// CreateTranscription inserts a transcription and returns the stored row.
// A zero Timestamp defaults to the current time.
func (db *DB) CreateTranscription(ctx context.Context, ins *models.InsertTranscription) (*models.Transcription, error) {
	ts := ins.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	stmt, err := db.getStmt(ctx, insertTranscriptionQuery)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var id int64
	err = stmt.QueryRowContext(ctx,
		ins.StreamID, ins.Content, ins.Confidence,
		ins.Latitude, ins.Longitude, ins.Address, ins.CallType, ts,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "transcriptions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transcription: %w", err)
	}

	return &models.Transcription{
		ID:         id,
		StreamID:   ins.StreamID,
		Content:    ins.Content,
		Confidence: ins.Confidence,
		Latitude:   ins.Latitude,
		Longitude:  ins.Longitude,
		Address:    ins.Address,
		CallType:   ins.CallType,
		Timestamp:  ts,
	}, nil
}

// GetTranscriptions returns the most recent transcriptions for one stream,
// newest first, capped at limit.
func (db *DB) GetTranscriptions(ctx context.Context, streamID int64, limit int) ([]models.Transcription, error) {
	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM transcriptions
		WHERE stream_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, transcriptionColumns)

	rows, err := db.conn.QueryContext(ctx, query, streamID, limit)
	metrics.RecordDBQuery("select", "transcriptions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTranscriptions(rows)
}

// GetAllTranscriptions returns the most recent transcriptions across all
// streams, newest first. When withLocationOnly is set, only rows carrying
// both coordinates are returned (the map feed).
func (db *DB) GetAllTranscriptions(ctx context.Context, limit int, withLocationOnly bool) ([]models.Transcription, error) {
	start := time.Now()
	query := fmt.Sprintf("SELECT %s FROM transcriptions", transcriptionColumns)
	if withLocationOnly {
		query += " WHERE latitude IS NOT NULL AND longitude IS NOT NULL"
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"

	rows, err := db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("select", "transcriptions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTranscriptions(rows)
}

// collectTranscriptions drains a result set of transcriptionColumns rows.
func collectTranscriptions(rows *sql.Rows) ([]models.Transcription, error) {
	transcriptions := make([]models.Transcription, 0)
	for rows.Next() {
		var (
			t          models.Transcription
			confidence sql.NullInt32
			latitude   sql.NullFloat64
			longitude  sql.NullFloat64
			address    sql.NullString
			callType   sql.NullString
		)

		err := rows.Scan(&t.ID, &t.StreamID, &t.Content, &confidence,
			&latitude, &longitude, &address, &callType, &t.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcription: %w", err)
		}

		t.Confidence = nullInt(confidence)
		t.Latitude = nullFloat(latitude)
		t.Longitude = nullFloat(longitude)
		t.Address = nullString(address)
		t.CallType = nullString(callType)

		transcriptions = append(transcriptions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcriptions: %w", err)
	}
	return transcriptions, nil
}
