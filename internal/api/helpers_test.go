// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package api

import (
	"net/http/httptest"
	"testing"
)

func TestJSONFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"URL", "url"},
		{"Latitude", "latitude"},
		{"CallType", "callType"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := jsonFieldName(tt.in); got != tt.want {
			t.Errorf("jsonFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateETagStable(t *testing.T) {
	a := generateETag([]byte(`{"id":1}`))
	b := generateETag([]byte(`{"id":1}`))
	c := generateETag([]byte(`{"id":2}`))

	if a != b {
		t.Errorf("same payload produced different ETags: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different payloads produced identical ETags")
	}
}

func TestGetBoolParam(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"withLocation=true", true},
		{"withLocation=1", true},
		{"withLocation=false", false},
		{"withLocation=banana", false},
		{"", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/transcriptions?"+tt.query, nil)
		if got := getBoolParam(r, "withLocation"); got != tt.want {
			t.Errorf("getBoolParam(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestGetIntParamDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transcriptions?limit=abc", nil)
	if got := getIntParam(r, "limit", 50); got != 50 {
		t.Errorf("non-numeric limit should fall back to default, got %d", got)
	}

	r = httptest.NewRequest("GET", "/api/transcriptions?limit=7", nil)
	if got := getIntParam(r, "limit", 50); got != 7 {
		t.Errorf("limit = %d, want 7", got)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	in := "line1\nline2\tend\x00"
	got := sanitizeLogValue(in)
	want := `line1\x0aline2\x09end\x00`
	if got != want {
		t.Errorf("sanitizeLogValue = %q, want %q", got, want)
	}
}
