// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/dispatchmap/dispatchmap/internal/logging"
	"github.com/dispatchmap/dispatchmap/internal/validation"
)

// errorResponse is the wire shape for all API errors. Field is present only
// for validation failures.
type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// This includes newlines, carriage returns, tabs, and other control characters that could
// allow attackers to forge log entries or corrupt log files.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		// Replace control characters (0x00-0x1F and 0x7F) with a safe representation
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. The payload is
// written as-is; list endpoints pass bare slices.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondMessage sends an error response as {"message": ...}.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondFieldError sends a validation error as {"message": ..., "field": ...}.
func respondFieldError(w http.ResponseWriter, message, field string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Message: message, Field: field})
}

// respondValidationError maps the first field failure onto the wire format.
func respondValidationError(w http.ResponseWriter, ve *validation.RequestValidationError) {
	first := ve.First()
	respondFieldError(w, first.Message, jsonFieldName(first.Field))
}

// jsonFieldName converts a Go struct field name to its JSON counterpart.
// The request structs use lowerCamel JSON tags derived from the field names.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	if field == strings.ToUpper(field) {
		// Initialisms like URL map to a fully lowercased tag.
		return strings.ToLower(field)
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolParam extracts a boolean query parameter. Accepts the forms
// strconv.ParseBool does ("true", "1", "T", ...); anything else is false.
func getBoolParam(r *http.Request, key string) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return boolValue
}

// pathID parses the {id} path segment as a stream id.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid stream id %q", raw)
	}
	return id, nil
}
