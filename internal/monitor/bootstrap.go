// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package monitor

import (
	"context"
	"fmt"

	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/models"
)

// BootstrapStore is the storage surface needed to reconcile the registry
// with running monitor tasks at startup.
type BootstrapStore interface {
	GetStreams(ctx context.Context) ([]models.Stream, error)
	CreateStream(ctx context.Context, ins *models.InsertStream) (*models.Stream, error)
}

// exampleStreams are the documented starter streams seeded into an empty
// registry. The LA feed is deliberately inactive so a fresh install shows
// both stream states.
func exampleStreams() []models.InsertStream {
	ptr := func(s string) *string { return &s }
	fptr := func(f float64) *float64 { return &f }

	return []models.InsertStream{
		{
			Name:        "Broadcastify Feed 41811",
			URL:         "https://www.broadcastify.com/listen/feed/41811",
			Description: ptr("Regional public safety feed"),
			Category:    models.CategoryOther,
			Status:      models.StreamStatusActive,
		},
		{
			Name:        "Chicago Police Zone 10",
			URL:         "https://www.broadcastify.com/listen/feed/31652",
			Description: ptr("Chicago PD Zone 10 dispatch"),
			Category:    models.CategoryPolice,
			Status:      models.StreamStatusActive,
			Latitude:    fptr(41.8781),
			Longitude:   fptr(-87.6298),
			City:        ptr("Chicago, IL"),
		},
		{
			Name:        "FDNY Brooklyn",
			URL:         "https://www.broadcastify.com/listen/feed/9358",
			Description: ptr("Brooklyn fire dispatch"),
			Category:    models.CategoryFire,
			Status:      models.StreamStatusActive,
			Latitude:    fptr(40.6782),
			Longitude:   fptr(-73.9442),
			City:        ptr("Brooklyn, NY"),
		},
		{
			Name:        "LA Fire Department",
			URL:         "https://www.broadcastify.com/listen/feed/2358",
			Description: ptr("LAFD citywide dispatch"),
			Category:    models.CategoryFire,
			Status:      models.StreamStatusInactive,
			Latitude:    fptr(34.0522),
			Longitude:   fptr(-118.2437),
			City:        ptr("Los Angeles, CA"),
		},
		{
			Name:        "Calgary Municipal Radio Network",
			URL:         "https://www.broadcastify.com/listen/feed/33054",
			Description: ptr("Calgary municipal services"),
			Category:    models.CategoryOther,
			Status:      models.StreamStatusActive,
			Latitude:    fptr(51.0447),
			Longitude:   fptr(-114.0719),
			City:        ptr("Calgary, AB"),
		},
	}
}

// Reconcile aligns running monitor tasks with the persisted registry at
// startup. An empty registry is optionally seeded with the example streams;
// otherwise every stream persisted as active gets its monitor resumed.
//
// Runs once before the HTTP surface comes up. Status drift at runtime is
// handled by the API layer, not by periodic re-reconciliation.
func Reconcile(ctx context.Context, store BootstrapStore, mgr *Manager, seedExamples bool) error {
	streams, err := store.GetStreams(ctx)
	if err != nil {
		return fmt.Errorf("failed to list streams: %w", err)
	}

	if len(streams) == 0 {
		if !seedExamples {
			logging.Info().Msg("registry empty, seeding disabled")
			return nil
		}
		return seed(ctx, store, mgr)
	}

	resumed := 0
	for i := range streams {
		s := &streams[i]
		if s.Status != models.StreamStatusActive {
			continue
		}
		if err := mgr.StartMonitoring(ctx, s); err != nil {
			return fmt.Errorf("failed to resume monitoring for stream %d: %w", s.ID, err)
		}
		resumed++
	}

	logging.Info().
		Int("streams", len(streams)).
		Int("resumed", resumed).
		Msg("registry reconciled")
	return nil
}

// seed populates an empty registry with the example streams and starts
// monitoring for the ones declared active.
func seed(ctx context.Context, store BootstrapStore, mgr *Manager) error {
	started := 0
	examples := exampleStreams()
	for i := range examples {
		ins := examples[i]
		created, err := store.CreateStream(ctx, &ins)
		if err != nil {
			return fmt.Errorf("failed to seed stream %q: %w", ins.Name, err)
		}
		if ins.Status != models.StreamStatusActive {
			continue
		}
		if err := mgr.StartMonitoring(ctx, created); err != nil {
			return fmt.Errorf("failed to start seeded stream %q: %w", ins.Name, err)
		}
		started++
	}

	logging.Info().
		Int("seeded", len(examples)).
		Int("started", started).
		Msg("registry seeded with example streams")
	return nil
}
