// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package database

import "errors"

// ErrStreamNotFound is returned when a stream id does not exist.
// The API layer maps it to 404.
var ErrStreamNotFound = errors.New("stream not found")
