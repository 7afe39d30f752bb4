// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package database

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/dispatchmap/dispatchmap/internal/config"
	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// setupDB creates a fresh database in a temp directory.
func setupDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "256MB",
		Threads:   2,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	return db
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestCreateStreamDefaults(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{
		Name: "Chicago Police Zone 10",
		URL:  "https://broadcastify.cdnstream1.com/31652",
	})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	if s.ID == 0 {
		t.Error("expected assigned id")
	}
	if s.Category != models.CategoryPolice {
		t.Errorf("expected default category Police, got %q", s.Category)
	}
	if s.Status != models.StreamStatusInactive {
		t.Errorf("expected default status inactive, got %q", s.Status)
	}
	if s.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestCreateStreamAssignsIncreasingIDs(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	a, err := db.CreateStream(ctx, &models.InsertStream{Name: "A", URL: "https://example.com/a"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	b, err := db.CreateStream(ctx, &models.InsertStream{Name: "B", URL: "https://example.com/b"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	if b.ID <= a.ID {
		t.Errorf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}
}

func TestGetStreamRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	created, err := db.CreateStream(ctx, &models.InsertStream{
		Name:        "FDNY Brooklyn",
		URL:         "https://broadcastify.cdnstream1.com/9358",
		Description: strPtr("Brooklyn Fire Dispatch"),
		Category:    models.CategoryFire,
		Latitude:    floatPtr(40.6782),
		Longitude:   floatPtr(-73.9442),
		City:        strPtr("Brooklyn, NY"),
	})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	got, err := db.GetStream(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStream failed: %v", err)
	}

	if got.Name != "FDNY Brooklyn" {
		t.Errorf("unexpected name %q", got.Name)
	}
	if got.Category != models.CategoryFire {
		t.Errorf("unexpected category %q", got.Category)
	}
	if !got.HasAnchor() {
		t.Fatal("expected geographic anchor")
	}
	if *got.Latitude != 40.6782 || *got.Longitude != -73.9442 {
		t.Errorf("unexpected anchor %f,%f", *got.Latitude, *got.Longitude)
	}
	if got.City == nil || *got.City != "Brooklyn, NY" {
		t.Errorf("unexpected city %v", got.City)
	}
}

func TestGetStreamNotFound(t *testing.T) {
	db := setupDB(t)

	_, err := db.GetStream(context.Background(), 9999)
	if !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound, got %v", err)
	}
}

func TestGetStreamsNewestFirst(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first, err := db.CreateStream(ctx, &models.InsertStream{Name: "first", URL: "https://example.com/1"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	second, err := db.CreateStream(ctx, &models.InsertStream{Name: "second", URL: "https://example.com/2"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	streams, err := db.GetStreams(ctx)
	if err != nil {
		t.Fatalf("GetStreams failed: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].ID != second.ID || streams[1].ID != first.ID {
		t.Errorf("expected newest first, got ids %d, %d", streams[0].ID, streams[1].ID)
	}
}

func TestUpdateStreamStatus(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{Name: "s", URL: "https://example.com/s"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	updated, err := db.UpdateStreamStatus(ctx, s.ID, models.StreamStatusActive)
	if err != nil {
		t.Fatalf("UpdateStreamStatus failed: %v", err)
	}
	if updated.Status != models.StreamStatusActive {
		t.Errorf("expected status active, got %q", updated.Status)
	}

	_, err = db.UpdateStreamStatus(ctx, 9999, models.StreamStatusActive)
	if !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound for missing id, got %v", err)
	}
}

func TestDeleteStreamCascades(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{Name: "s", URL: "https://example.com/s"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	_, err = db.CreateTranscription(ctx, &models.InsertTranscription{
		StreamID: s.ID,
		Content:  "Copy that, 10-4.",
	})
	if err != nil {
		t.Fatalf("CreateTranscription failed: %v", err)
	}

	if err := db.DeleteStream(ctx, s.ID); err != nil {
		t.Fatalf("DeleteStream failed: %v", err)
	}

	if _, err := db.GetStream(ctx, s.ID); !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected stream gone, got %v", err)
	}
	remaining, err := db.GetTranscriptions(ctx, s.ID, 10)
	if err != nil {
		t.Fatalf("GetTranscriptions failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected transcriptions removed, got %d", len(remaining))
	}

	if err := db.DeleteStream(ctx, s.ID); !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound on second delete, got %v", err)
	}
}

func TestCreateTranscriptionDefaultsTimestamp(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{Name: "s", URL: "https://example.com/s"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	before := time.Now().UTC().Add(-time.Second)
	tr, err := db.CreateTranscription(ctx, &models.InsertTranscription{
		StreamID:   s.ID,
		Content:    "Unit 10-4, proceeding to location.",
		Confidence: intPtr(92),
		CallType:   strPtr("Dispatch"),
	})
	if err != nil {
		t.Fatalf("CreateTranscription failed: %v", err)
	}

	if tr.ID == 0 {
		t.Error("expected assigned id")
	}
	if tr.Timestamp.Before(before) {
		t.Errorf("expected timestamp defaulted to now, got %s", tr.Timestamp)
	}
}

func TestGetTranscriptionsNewestFirstAndLimited(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{Name: "s", URL: "https://example.com/s"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := db.CreateTranscription(ctx, &models.InsertTranscription{
			StreamID:  s.ID,
			Content:   "call",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateTranscription failed: %v", err)
		}
	}

	got, err := db.GetTranscriptions(ctx, s.ID, 3)
	if err != nil {
		t.Fatalf("GetTranscriptions failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 transcriptions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Error("expected newest-first ordering")
		}
	}
}

func TestGetAllTranscriptionsWithLocationFilter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := db.CreateStream(ctx, &models.InsertStream{Name: "s", URL: "https://example.com/s"})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	_, err = db.CreateTranscription(ctx, &models.InsertTranscription{
		StreamID: s.ID, Content: "no location",
	})
	if err != nil {
		t.Fatalf("CreateTranscription failed: %v", err)
	}
	_, err = db.CreateTranscription(ctx, &models.InsertTranscription{
		StreamID:  s.ID,
		Content:   "located",
		Latitude:  floatPtr(41.88),
		Longitude: floatPtr(-87.63),
	})
	if err != nil {
		t.Fatalf("CreateTranscription failed: %v", err)
	}

	all, err := db.GetAllTranscriptions(ctx, 10, false)
	if err != nil {
		t.Fatalf("GetAllTranscriptions failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 rows unfiltered, got %d", len(all))
	}

	located, err := db.GetAllTranscriptions(ctx, 10, true)
	if err != nil {
		t.Fatalf("GetAllTranscriptions failed: %v", err)
	}
	if len(located) != 1 {
		t.Fatalf("expected 1 located row, got %d", len(located))
	}
	if !located[0].HasLocation() {
		t.Error("expected located row to carry coordinates")
	}
}
