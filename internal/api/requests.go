// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package api

// CreateStreamRequest is the POST /api/streams body.
// Category and status fall back to storage defaults when omitted.
type CreateStreamRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	URL         string   `json:"url" validate:"required,url"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Category    string   `json:"category" validate:"omitempty,oneof=Police Fire EMS Weather Other"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive error"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	City        *string  `json:"city" validate:"omitempty,max=200"`
}

// UpdateStreamStatusRequest is the PATCH /api/streams/{id}/status body.
type UpdateStreamStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive error"`
}

// TranscriptionsQuery holds the validated query parameters for the
// transcription list endpoints.
type TranscriptionsQuery struct {
	Limit int `validate:"gte=1,lte=1000"`
}
