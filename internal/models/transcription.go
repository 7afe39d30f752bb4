// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package models

import "time"

// Transcription is a single transcribed radio call attributed to a stream.
type Transcription struct {
	ID       int64  `json:"id"`
	StreamID int64  `json:"streamId"`
	Content  string `json:"content"`

	// Confidence is the transcription confidence percentage (85-100
	// for the synthetic source). Nullable in storage.
	Confidence *int `json:"confidence"`

	// Location fields are present only for streams with a geographic
	// anchor at the time the event was generated.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`

	CallType  *string   `json:"callType"`
	Timestamp time.Time `json:"timestamp"`
}

// HasLocation reports whether the transcription carries coordinates.
func (t *Transcription) HasLocation() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// InsertTranscription is the input form for persisting a transcription.
// The registry assigns ID and defaults Timestamp to now when zero.
type InsertTranscription struct {
	StreamID   int64     `json:"streamId"`
	Content    string    `json:"content"`
	Confidence *int      `json:"confidence,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Address    *string   `json:"address,omitempty"`
	CallType   *string   `json:"callType,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// TranscriptionEvent is the WebSocket payload for a transcription broadcast.
// Timestamp is RFC3339 to match what dashboard clients expect.
type TranscriptionEvent struct {
	StreamID   int64    `json:"streamId"`
	Content    string   `json:"content"`
	Timestamp  string   `json:"timestamp"`
	Confidence *int     `json:"confidence,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Address    *string  `json:"address,omitempty"`
	CallType   *string  `json:"callType,omitempty"`
}

// NewTranscriptionEvent builds the broadcast payload from a persisted row.
func NewTranscriptionEvent(t *Transcription) TranscriptionEvent {
	return TranscriptionEvent{
		StreamID:   t.StreamID,
		Content:    t.Content,
		Timestamp:  t.Timestamp.UTC().Format(time.RFC3339),
		Confidence: t.Confidence,
		Latitude:   t.Latitude,
		Longitude:  t.Longitude,
		Address:    t.Address,
		CallType:   t.CallType,
	}
}

// StreamStatusEvent is the WebSocket payload for a stream lifecycle change.
type StreamStatusEvent struct {
	StreamID int64        `json:"streamId"`
	Status   StreamStatus `json:"status"`
}
