// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

// Package eventgen produces synthetic radio transcription events.
//
// Real audio capture and speech-to-text are out of scope for this service;
// the synthetic source stands in for them with category-specific phrase
// pools so dashboards exercise the full pipeline (persist, broadcast, map
// rendering) with plausible data.
package eventgen

import (
	"math/rand/v2"
	"sync"

	"github.com/dispatchmap/dispatchmap/internal/models"
)

const (
	// CoordJitterDegrees bounds the offset applied to a stream's anchor
	// when placing an event. Roughly 2.8 km of latitude.
	CoordJitterDegrees = 0.025

	// ConfidenceMin and ConfidenceMax bound the reported transcription
	// confidence percentage (inclusive).
	ConfidenceMin = 85
	ConfidenceMax = 100
)

// Anchor is the geographic anchor for a monitored stream.
type Anchor struct {
	Latitude  float64
	Longitude float64
}

// Event is a single synthetic transcription before persistence.
// Latitude and Longitude are nil when the stream has no anchor.
type Event struct {
	Content    string
	CallType   string
	Confidence int
	Latitude   *float64
	Longitude  *float64
	Address    string
}

// Source produces transcription events for a stream category.
//
// Implementations must be safe for concurrent use; one source instance is
// shared by all monitor tasks.
type Source interface {
	Generate(category models.StreamCategory, anchor *Anchor) Event
}

// phrase pairs radio chatter with its dispatch call type.
type phrase struct {
	content  string
	callType string
}

// Category-specific phrase pools. Categories without a dedicated pool
// fall back to the shared dispatch pool.
var (
	policePhrases = []phrase{
		{"Unit 10-4, proceeding to location.", "Dispatch"},
		{"Dispatch, we have a code 3 on Main St.", "Emergency"},
		{"Suspect described as male, late 20s, red hoodie.", "BOLO"},
		{"Status check on unit 4.", "Status"},
		{"Suspect in custody.", "Arrest"},
		{"Traffic stop at 5th and Elm.", "Traffic"},
		{"Vehicle collision, requesting traffic control.", "Traffic"},
		{"Burglary in progress, silent approach.", "Crime"},
	}

	firePhrases = []phrase{
		{"Fire department arriving on scene.", "Fire"},
		{"Structure fire reported, multiple units responding.", "Fire"},
		{"Requesting second alarm, fire spreading to adjacent structure.", "Fire"},
		{"Ladder 7 on scene, beginning ventilation.", "Fire"},
		{"Hazmat team requested, chemical odor reported.", "Hazmat"},
	}

	emsPhrases = []phrase{
		{"EMS requested at 405 highway.", "Medical"},
		{"Medical emergency, cardiac arrest.", "Medical"},
		{"Patient stable, transporting to county general.", "Medical"},
		{"Requesting ALS unit, possible overdose.", "Medical"},
	}

	weatherPhrases = []phrase{
		{"Severe thunderstorm warning issued for the county.", "Weather"},
		{"Spotters report rotation near the interstate.", "Weather"},
		{"Flash flooding reported on low-lying roadways.", "Weather"},
	}

	dispatchPhrases = []phrase{
		{"Clear the channel for emergency traffic.", "Priority"},
		{"Copy that, 10-4.", "Acknowledgment"},
		{"All units, radio check.", "Status"},
		{"Stand by for dispatch.", "Dispatch"},
	}

	addresses = []string{
		"123 Main Street",
		"456 Oak Avenue",
		"789 Park Boulevard",
		"101 First Street",
		"202 Second Avenue",
		"303 Third Street",
		"404 Fourth Avenue",
		"505 Fifth Street",
		"1200 Industrial Way",
		"850 Commerce Drive",
	}
)

// poolFor returns the phrase pool for a category, combined with the shared
// dispatch phrases so every channel carries routine radio traffic.
func poolFor(category models.StreamCategory) []phrase {
	var specific []phrase
	switch category {
	case models.CategoryPolice:
		specific = policePhrases
	case models.CategoryFire:
		specific = firePhrases
	case models.CategoryEMS:
		specific = emsPhrases
	case models.CategoryWeather:
		specific = weatherPhrases
	default:
		return dispatchPhrases
	}

	pool := make([]phrase, 0, len(specific)+len(dispatchPhrases))
	pool = append(pool, specific...)
	pool = append(pool, dispatchPhrases...)
	return pool
}

// SyntheticSource implements Source with pseudo-random phrase selection.
type SyntheticSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticSource creates a source seeded from the system entropy pool.
func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededSource creates a source with a fixed seed for reproducible output.
func NewSeededSource(seed uint64) *SyntheticSource {
	return &SyntheticSource{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// Generate produces one synthetic event for the given category.
// When anchor is non-nil, the event is placed within CoordJitterDegrees of
// it on both axes. Confidence is uniform in [ConfidenceMin, ConfidenceMax].
func (s *SyntheticSource) Generate(category models.StreamCategory, anchor *Anchor) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := poolFor(category)
	p := pool[s.rng.IntN(len(pool))]

	ev := Event{
		Content:    p.content,
		CallType:   p.callType,
		Confidence: ConfidenceMin + s.rng.IntN(ConfidenceMax-ConfidenceMin+1),
		Address:    addresses[s.rng.IntN(len(addresses))],
	}

	if anchor != nil {
		lat := anchor.Latitude + s.jitter()
		lng := anchor.Longitude + s.jitter()
		ev.Latitude = &lat
		ev.Longitude = &lng
	}

	return ev
}

// jitter returns a uniform offset in [-CoordJitterDegrees, CoordJitterDegrees).
func (s *SyntheticSource) jitter() float64 {
	return (s.rng.Float64() - 0.5) * 2 * CoordJitterDegrees
}
