// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dispatchmap/dispatchmap/internal/metrics"
	"github.com/dispatchmap/dispatchmap/internal/models"
)

const streamColumns = "id, name, url, description, category, status, latitude, longitude, city, created_at"

// GetStreams returns all registered streams, newest first.
func (db *DB) GetStreams(ctx context.Context) ([]models.Stream, error) {
	start := time.Now()
	query := fmt.Sprintf("SELECT %s FROM streams ORDER BY created_at DESC, id DESC", streamColumns)

	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "streams", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query streams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	streams := make([]models.Stream, 0)
	for rows.Next() {
		s, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate streams: %w", err)
	}
	return streams, nil
}

// GetStream returns a single stream by id or ErrStreamNotFound.
func (db *DB) GetStream(ctx context.Context, id int64) (*models.Stream, error) {
	start := time.Now()
	query := fmt.Sprintf("SELECT %s FROM streams WHERE id = ?", streamColumns)

	row := db.conn.QueryRowContext(ctx, query, id)
	s, err := scanStream(row)
	metrics.RecordDBQuery("select", "streams", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStreamNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateStream inserts a stream and returns the stored row.
// Zero-valued Category defaults to Police and Status to inactive,
// matching the schema defaults.
func (db *DB) CreateStream(ctx context.Context, ins *models.InsertStream) (*models.Stream, error) {
	category := ins.Category
	if category == "" {
		category = models.CategoryPolice
	}
	status := ins.Status
	if status == "" {
		status = models.StreamStatusInactive
	}

	start := time.Now()
	query := `INSERT INTO streams (name, url, description, category, status, latitude, longitude, city)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	var (
		id        int64
		createdAt time.Time
	)
	err := db.conn.QueryRowContext(ctx, query,
		ins.Name, ins.URL, ins.Description, string(category), string(status),
		ins.Latitude, ins.Longitude, ins.City,
	).Scan(&id, &createdAt)
	metrics.RecordDBQuery("insert", "streams", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stream: %w", err)
	}

	return &models.Stream{
		ID:          id,
		Name:        ins.Name,
		URL:         ins.URL,
		Description: ins.Description,
		Category:    category,
		Status:      status,
		Latitude:    ins.Latitude,
		Longitude:   ins.Longitude,
		City:        ins.City,
		CreatedAt:   createdAt,
	}, nil
}

// UpdateStreamStatus persists a status transition and returns the updated
// stream, or ErrStreamNotFound when the id does not exist.
func (db *DB) UpdateStreamStatus(ctx context.Context, id int64, status models.StreamStatus) (*models.Stream, error) {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx,
		"UPDATE streams SET status = ? WHERE id = ?", string(status), id)
	metrics.RecordDBQuery("update", "streams", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update stream status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrStreamNotFound
	}

	return db.GetStream(ctx, id)
}

// DeleteStream removes a stream and all of its transcriptions.
// Returns ErrStreamNotFound when the id does not exist.
func (db *DB) DeleteStream(ctx context.Context, id int64) error {
	start := time.Now()
	if _, err := db.conn.ExecContext(ctx,
		"DELETE FROM transcriptions WHERE stream_id = ?", id); err != nil {
		metrics.RecordDBQuery("delete", "transcriptions", start, err)
		return fmt.Errorf("failed to delete stream transcriptions: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, "DELETE FROM streams WHERE id = ?", id)
	metrics.RecordDBQuery("delete", "streams", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete stream: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrStreamNotFound
	}
	return nil
}

// rowScanner matches *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanStream maps one row of streamColumns onto a Stream.
func scanStream(row rowScanner) (*models.Stream, error) {
	var (
		s           models.Stream
		description sql.NullString
		category    string
		status      string
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
		city        sql.NullString
	)

	err := row.Scan(&s.ID, &s.Name, &s.URL, &description, &category, &status,
		&latitude, &longitude, &city, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan stream: %w", err)
	}

	s.Category = models.StreamCategory(category)
	s.Status = models.StreamStatus(status)
	s.Description = nullString(description)
	s.Latitude = nullFloat(latitude)
	s.Longitude = nullFloat(longitude)
	s.City = nullString(city)

	return &s, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}
