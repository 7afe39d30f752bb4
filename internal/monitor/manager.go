// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dispatchmap/dispatchmap/internal/config"
	"github.com/dispatchmap/dispatchmap/internal/eventgen"
	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/metrics"
	"github.com/dispatchmap/dispatchmap/internal/models"
)

// Registry is the storage surface the scheduler writes through.
type Registry interface {
	UpdateStreamStatus(ctx context.Context, id int64, status models.StreamStatus) (*models.Stream, error)
	CreateTranscription(ctx context.Context, ins *models.InsertTranscription) (*models.Transcription, error)
}

// Broadcaster pushes events to connected dashboard clients.
type Broadcaster interface {
	BroadcastTranscription(t *models.Transcription)
	BroadcastStreamStatus(streamID int64, status models.StreamStatus)
}

// task is one running monitor goroutine.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns the per-stream monitor tasks. Each active stream gets one
// goroutine that periodically generates a transcription event, persists it,
// and broadcasts it to the hub.
//
// All methods are safe for concurrent use.
type Manager struct {
	store    Registry
	source   eventgen.Source
	hub      Broadcaster
	interval time.Duration
	jitter   time.Duration

	mu    sync.Mutex
	tasks map[int64]*task

	// root is the parent of every task context so StopAll and Serve
	// shutdown can cancel tasks started before Serve was called.
	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a monitor manager. Tasks started before Serve runs are
// still supervised: they descend from the manager's own root context.
func NewManager(store Registry, source eventgen.Source, hub Broadcaster, cfg *config.MonitorConfig) *Manager {
	root, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:    store,
		source:   source,
		hub:      hub,
		interval: cfg.Interval,
		jitter:   cfg.Jitter,
		tasks:    make(map[int64]*task),
		root:     root,
		cancel:   cancel,
	}
}

// StartMonitoring begins periodic event generation for a stream. Starting an
// already-monitored stream is a no-op. The stream's status is persisted as
// active and the transition is broadcast.
//
// The geographic anchor is captured once at start time; later edits to the
// stream row do not move events generated by a running task.
func (m *Manager) StartMonitoring(ctx context.Context, stream *models.Stream) error {
	m.mu.Lock()
	if _, ok := m.tasks[stream.ID]; ok {
		m.mu.Unlock()
		logging.Debug().Int64("stream_id", stream.ID).Msg("monitor already running")
		return nil
	}

	taskCtx, cancel := context.WithCancel(m.root)
	t := &task{cancel: cancel, done: make(chan struct{})}
	m.tasks[stream.ID] = t
	active := len(m.tasks)
	m.mu.Unlock()

	if _, err := m.store.UpdateStreamStatus(ctx, stream.ID, models.StreamStatusActive); err != nil {
		m.removeTask(stream.ID, t)
		cancel()
		close(t.done)
		return fmt.Errorf("failed to mark stream active: %w", err)
	}
	m.hub.BroadcastStreamStatus(stream.ID, models.StreamStatusActive)

	var anchor *eventgen.Anchor
	if stream.HasAnchor() {
		anchor = &eventgen.Anchor{Latitude: *stream.Latitude, Longitude: *stream.Longitude}
	}

	metrics.MonitorActiveTasks.Set(float64(active))
	logging.Info().
		Int64("stream_id", stream.ID).
		Str("name", stream.Name).
		Str("category", string(stream.Category)).
		Bool("has_anchor", anchor != nil).
		Dur("interval", m.interval).
		Msg("monitoring started")

	m.wg.Add(1)
	go m.runTask(taskCtx, t, stream.ID, stream.Category, anchor)

	return nil
}

// StopMonitoring cancels a stream's monitor task and persists the inactive
// status. Stopping a stream with no running task still persists the status,
// so a stream stuck active in storage can be repaired.
func (m *Manager) StopMonitoring(ctx context.Context, streamID int64) error {
	return m.StopMonitoringWithStatus(ctx, streamID, models.StreamStatusInactive)
}

// StopMonitoringWithStatus cancels a stream's monitor task and persists the
// given terminal status (inactive or error).
func (m *Manager) StopMonitoringWithStatus(ctx context.Context, streamID int64, status models.StreamStatus) error {
	m.mu.Lock()
	t, ok := m.tasks[streamID]
	if ok {
		delete(m.tasks, streamID)
	}
	active := len(m.tasks)
	m.mu.Unlock()

	if ok {
		t.cancel()
		<-t.done
		metrics.MonitorActiveTasks.Set(float64(active))
		logging.Info().Int64("stream_id", streamID).Str("status", string(status)).Msg("monitoring stopped")
	}

	if _, err := m.store.UpdateStreamStatus(ctx, streamID, status); err != nil {
		return fmt.Errorf("failed to persist stream status: %w", err)
	}
	m.hub.BroadcastStreamStatus(streamID, status)
	return nil
}

// CancelTask cancels a stream's monitor task without touching storage.
// Used when the stream row itself is being deleted.
func (m *Manager) CancelTask(streamID int64) {
	m.mu.Lock()
	t, ok := m.tasks[streamID]
	if ok {
		delete(m.tasks, streamID)
	}
	active := len(m.tasks)
	m.mu.Unlock()

	if ok {
		t.cancel()
		<-t.done
		metrics.MonitorActiveTasks.Set(float64(active))
		logging.Info().Int64("stream_id", streamID).Msg("monitor task canceled")
	}
}

// IsActive reports whether a monitor task is running for the stream.
func (m *Manager) IsActive(streamID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[streamID]
	return ok
}

// ActiveCount returns the number of running monitor tasks.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// StopAll cancels every monitor task and waits for them to exit.
// Statuses are left as-is in storage so monitoring resumes after restart.
func (m *Manager) StopAll() {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = make(map[int64]*task)
	m.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}
	metrics.MonitorActiveTasks.Set(0)
	if len(tasks) > 0 {
		logging.Info().Int("stopped", len(tasks)).Msg("stopped all monitor tasks")
	}
}

// Serve runs the manager under supervision. It blocks until ctx is canceled,
// then stops every task before returning.
func (m *Manager) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", m.interval).Msg("monitor manager started")
	<-ctx.Done()

	m.cancel()
	m.StopAll()
	m.wg.Wait()

	logging.Info().Msg("monitor manager stopped")
	return ctx.Err()
}

// String identifies the manager in supervisor logs.
func (m *Manager) String() string {
	return "monitor-manager"
}

// removeTask drops a task entry if it still points at t.
func (m *Manager) removeTask(streamID int64, t *task) {
	m.mu.Lock()
	if cur, ok := m.tasks[streamID]; ok && cur == t {
		delete(m.tasks, streamID)
	}
	metrics.MonitorActiveTasks.Set(float64(len(m.tasks)))
	m.mu.Unlock()
}

// runTask is the per-stream monitor loop. The first event fires one full
// period after start. Failures are logged and the loop keeps its cadence;
// there is no backoff and the task is not torn down on error.
func (m *Manager) runTask(ctx context.Context, t *task, streamID int64, category models.StreamCategory, anchor *eventgen.Anchor) {
	defer m.wg.Done()
	defer close(t.done)

	timer := time.NewTimer(m.period())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			m.tick(ctx, streamID, category, anchor)
			timer.Reset(m.period())
		}
	}
}

// period returns the delay until the next event: the base interval plus a
// uniform share of the configured jitter.
func (m *Manager) period() time.Duration {
	if m.jitter <= 0 {
		return m.interval
	}
	return m.interval + time.Duration(rand.Int64N(int64(m.jitter)+1))
}

// tick generates, persists, and broadcasts one transcription event.
func (m *Manager) tick(ctx context.Context, streamID int64, category models.StreamCategory, anchor *eventgen.Anchor) {
	ev := m.source.Generate(category, anchor)

	confidence := ev.Confidence
	address := ev.Address
	callType := ev.CallType

	ins := &models.InsertTranscription{
		StreamID:   streamID,
		Content:    ev.Content,
		Confidence: &confidence,
		Latitude:   ev.Latitude,
		Longitude:  ev.Longitude,
		Address:    &address,
		CallType:   &callType,
		Timestamp:  time.Now().UTC(),
	}

	stored, err := m.store.CreateTranscription(ctx, ins)
	if err != nil {
		metrics.MonitorTickErrors.WithLabelValues("persist").Inc()
		logging.Error().Err(err).Int64("stream_id", streamID).Msg("failed to persist transcription")
		return
	}

	m.hub.BroadcastTranscription(stored)
	metrics.MonitorTicksTotal.WithLabelValues(string(category)).Inc()

	logging.Debug().
		Int64("stream_id", streamID).
		Int64("transcription_id", stored.ID).
		Str("call_type", callType).
		Bool("has_location", stored.HasLocation()).
		Msg("transcription generated")
}
