// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name     string `validate:"required,min=1,max=20"`
	URL      string `validate:"required,url"`
	Category string `validate:"omitempty,oneof=Police Fire EMS"`
	Limit    int    `validate:"min=1,max=1000"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{
		Name:     "Chicago PD Zone 10",
		URL:      "https://example.com/stream",
		Category: "Police",
		Limit:    50,
	}

	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected validation to pass, got %v", err)
	}
}

func TestValidateStructFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "missing name",
			req:       sampleRequest{URL: "https://example.com", Limit: 1},
			wantField: "Name",
			wantTag:   "required",
		},
		{
			name:      "invalid url",
			req:       sampleRequest{Name: "x", URL: "not a url", Limit: 1},
			wantField: "URL",
			wantTag:   "url",
		},
		{
			name:      "bad category",
			req:       sampleRequest{Name: "x", URL: "https://example.com", Category: "Navy", Limit: 1},
			wantField: "Category",
			wantTag:   "oneof",
		},
		{
			name:      "limit too large",
			req:       sampleRequest{Name: "x", URL: "https://example.com", Limit: 5000},
			wantField: "Limit",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			first := err.First()
			if first.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, first.Field)
			}
			if first.Tag != tt.wantTag {
				t.Errorf("expected tag %q, got %q", tt.wantTag, first.Tag)
			}
			if first.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := sampleRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	if len(err.Errors()) < 2 {
		t.Errorf("expected multiple field errors, got %d", len(err.Errors()))
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("expected joined message, got %q", err.Error())
	}
}

func TestTranslateMessages(t *testing.T) {
	req := sampleRequest{Name: strings.Repeat("a", 30), URL: "https://example.com", Limit: 1}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	first := err.First()
	if !strings.Contains(first.Message, "at most 20 characters") {
		t.Errorf("expected string max message, got %q", first.Message)
	}
}
