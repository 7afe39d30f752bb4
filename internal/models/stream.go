// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

// Package models defines the core data types shared across the application:
// radio streams, transcription events, and the WebSocket payloads derived
// from them. The JSON field names form the public API contract and must not
// change without a corresponding client update.
package models

import "time"

// StreamStatus is the lifecycle state of a monitored stream.
type StreamStatus string

const (
	// StreamStatusActive means a monitor task is (or should be) running.
	StreamStatusActive StreamStatus = "active"

	// StreamStatusInactive means no monitor task is running.
	StreamStatusInactive StreamStatus = "inactive"

	// StreamStatusError means monitoring was stopped due to a failure.
	StreamStatusError StreamStatus = "error"
)

// IsValid reports whether s is one of the known stream statuses.
func (s StreamStatus) IsValid() bool {
	switch s {
	case StreamStatusActive, StreamStatusInactive, StreamStatusError:
		return true
	default:
		return false
	}
}

// StreamCategory classifies the agency behind a radio stream.
// It selects the phrase pool used by the synthetic event source.
type StreamCategory string

const (
	CategoryPolice  StreamCategory = "Police"
	CategoryFire    StreamCategory = "Fire"
	CategoryEMS     StreamCategory = "EMS"
	CategoryWeather StreamCategory = "Weather"
	CategoryOther   StreamCategory = "Other"
)

// Stream represents a registered public-safety radio stream.
type Stream struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Description *string        `json:"description"`
	Category    StreamCategory `json:"category"`
	Status      StreamStatus   `json:"status"`

	// Latitude and Longitude anchor generated events geographically.
	// Streams without an anchor emit events without coordinates.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      *string  `json:"city"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasAnchor reports whether the stream carries a geographic anchor.
func (s *Stream) HasAnchor() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// InsertStream is the input form for creating a stream.
// The registry assigns ID and CreatedAt and applies defaults for
// zero-valued Category (Police) and Status (inactive).
type InsertStream struct {
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Description *string        `json:"description,omitempty"`
	Category    StreamCategory `json:"category,omitempty"`
	Status      StreamStatus   `json:"status,omitempty"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	City        *string        `json:"city,omitempty"`
}
