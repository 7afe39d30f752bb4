// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/dispatchmap/dispatchmap/internal/config"
	"github.com/dispatchmap/dispatchmap/internal/database"
	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/models"
	"github.com/dispatchmap/dispatchmap/internal/validation"
	ws "github.com/dispatchmap/dispatchmap/internal/websocket"
)

const (
	// defaultTranscriptionLimit applies when the limit query param is absent.
	defaultTranscriptionLimit = 50

	// maxTranscriptionLimit caps the limit query param.
	maxTranscriptionLimit = 1000
)

// Store is the registry surface the handlers read and write.
// *database.DB satisfies it; tests use an in-memory fake.
type Store interface {
	GetStreams(ctx context.Context) ([]models.Stream, error)
	GetStream(ctx context.Context, id int64) (*models.Stream, error)
	CreateStream(ctx context.Context, ins *models.InsertStream) (*models.Stream, error)
	UpdateStreamStatus(ctx context.Context, id int64, status models.StreamStatus) (*models.Stream, error)
	DeleteStream(ctx context.Context, id int64) error
	GetTranscriptions(ctx context.Context, streamID int64, limit int) ([]models.Transcription, error)
	GetAllTranscriptions(ctx context.Context, limit int, withLocationOnly bool) ([]models.Transcription, error)
	Ping(ctx context.Context) error
}

// MonitorController is the scheduler surface the handlers drive.
type MonitorController interface {
	StartMonitoring(ctx context.Context, stream *models.Stream) error
	StopMonitoring(ctx context.Context, streamID int64) error
	StopMonitoringWithStatus(ctx context.Context, streamID int64, status models.StreamStatus) error
	CancelTask(streamID int64)
	IsActive(streamID int64) bool
	ActiveCount() int
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store   Store
	monitor MonitorController
	wsHub   *ws.Hub
	config  *config.Config
}

// NewHandler creates an API handler.
func NewHandler(store Store, monitor MonitorController, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		store:   store,
		monitor: monitor,
		wsHub:   wsHub,
		config:  cfg,
	}
}

// GetStreams returns all registered streams as a bare array.
func (h *Handler) GetStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := h.store.GetStreams(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("failed to list streams")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch streams")
		return
	}
	respondJSON(w, http.StatusOK, streams)
}

// GetStream returns one stream by id.
func (h *Handler) GetStream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondFieldError(w, "Invalid stream id", "id")
		return
	}

	stream, err := h.store.GetStream(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrStreamNotFound) {
			respondMessage(w, http.StatusNotFound, "Stream not found")
			return
		}
		logging.Error().Err(err).Int64("stream_id", id).Msg("failed to fetch stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch stream")
		return
	}
	respondJSON(w, http.StatusOK, stream)
}

// CreateStream registers a stream and immediately starts monitoring it.
func (h *Handler) CreateStream(w http.ResponseWriter, r *http.Request) {
	var req CreateStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		respondValidationError(w, ve)
		return
	}

	ins := &models.InsertStream{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Category:    models.StreamCategory(req.Category),
		Status:      models.StreamStatus(req.Status),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		City:        req.City,
	}

	stream, err := h.store.CreateStream(r.Context(), ins)
	if err != nil {
		logging.Error().Err(err).Str("name", sanitizeLogValue(req.Name)).Msg("failed to create stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to create stream")
		return
	}

	// New streams begin monitoring right away; a start failure leaves the
	// stream registered but inactive.
	if err := h.monitor.StartMonitoring(r.Context(), stream); err != nil {
		logging.Error().Err(err).Int64("stream_id", stream.ID).Msg("failed to start monitoring new stream")
	} else {
		stream.Status = models.StreamStatusActive
	}

	respondJSON(w, http.StatusCreated, stream)
}

// UpdateStreamStatus transitions a stream's lifecycle state. Setting active
// starts a monitor task; inactive and error stop it.
func (h *Handler) UpdateStreamStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondFieldError(w, "Invalid stream id", "id")
		return
	}

	var req UpdateStreamStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		respondValidationError(w, ve)
		return
	}

	stream, err := h.store.GetStream(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrStreamNotFound) {
			respondMessage(w, http.StatusNotFound, "Stream not found")
			return
		}
		logging.Error().Err(err).Int64("stream_id", id).Msg("failed to fetch stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch stream")
		return
	}

	status := models.StreamStatus(req.Status)
	switch status {
	case models.StreamStatusActive:
		err = h.monitor.StartMonitoring(r.Context(), stream)
	case models.StreamStatusInactive:
		err = h.monitor.StopMonitoring(r.Context(), id)
	case models.StreamStatusError:
		err = h.monitor.StopMonitoringWithStatus(r.Context(), id, models.StreamStatusError)
	}
	if err != nil {
		logging.Error().Err(err).Int64("stream_id", id).Str("status", req.Status).Msg("failed to transition stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to update stream status")
		return
	}

	stream.Status = status
	respondJSON(w, http.StatusOK, stream)
}

// DeleteStream removes a stream and all of its transcriptions.
// A running monitor task is canceled first.
func (h *Handler) DeleteStream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondFieldError(w, "Invalid stream id", "id")
		return
	}

	h.monitor.CancelTask(id)

	if err := h.store.DeleteStream(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrStreamNotFound) {
			respondMessage(w, http.StatusNotFound, "Stream not found")
			return
		}
		logging.Error().Err(err).Int64("stream_id", id).Msg("failed to delete stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to delete stream")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStreamTranscriptions returns recent transcriptions for one stream,
// newest first.
func (h *Handler) GetStreamTranscriptions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondFieldError(w, "Invalid stream id", "id")
		return
	}

	limit := getIntParam(r, "limit", defaultTranscriptionLimit)
	if ve := validation.ValidateStruct(&TranscriptionsQuery{Limit: limit}); ve != nil {
		respondValidationError(w, ve)
		return
	}

	if _, err := h.store.GetStream(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrStreamNotFound) {
			respondMessage(w, http.StatusNotFound, "Stream not found")
			return
		}
		logging.Error().Err(err).Int64("stream_id", id).Msg("failed to fetch stream")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch stream")
		return
	}

	transcriptions, err := h.store.GetTranscriptions(r.Context(), id, limit)
	if err != nil {
		logging.Error().Err(err).Int64("stream_id", id).Msg("failed to fetch transcriptions")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch transcriptions")
		return
	}
	respondJSON(w, http.StatusOK, transcriptions)
}

// GetAllTranscriptions returns recent transcriptions across all streams.
// withLocation=true narrows the result to rows carrying coordinates, which
// is what the map view requests.
func (h *Handler) GetAllTranscriptions(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", defaultTranscriptionLimit)
	if ve := validation.ValidateStruct(&TranscriptionsQuery{Limit: limit}); ve != nil {
		respondValidationError(w, ve)
		return
	}

	withLocation := getBoolParam(r, "withLocation")

	transcriptions, err := h.store.GetAllTranscriptions(r.Context(), limit, withLocation)
	if err != nil {
		logging.Error().Err(err).Msg("failed to fetch transcriptions")
		respondMessage(w, http.StatusInternalServerError, "Failed to fetch transcriptions")
		return
	}
	respondJSON(w, http.StatusOK, transcriptions)
}

// healthStatus is the /api/health payload.
type healthStatus struct {
	Status         string `json:"status"`
	Database       string `json:"database"`
	ActiveMonitors int    `json:"activeMonitors"`
	Clients        int    `json:"clients"`
	Timestamp      string `json:"timestamp"`
}

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:         "ok",
		Database:       "ok",
		ActiveMonitors: h.monitor.ActiveCount(),
		Clients:        h.wsHub.GetClientCount(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("health check database ping failed")
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, status)
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady is the readiness probe: storage must be reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// WebSocket upgrades the connection and registers the client with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondMessage(w, http.StatusServiceUnavailable, "WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader creates a WebSocket upgrader with proper origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// If no origin header, REJECT - legitimate browser WebSockets ALWAYS include Origin
	// Only non-browser clients (curl, scripts, mobile apps) omit Origin header
	// Allowing empty Origin bypasses CORS entirely - security vulnerability
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	// Check against allowed origins from config
	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	// Origin not in allowed list - sanitize origin to prevent log injection
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
