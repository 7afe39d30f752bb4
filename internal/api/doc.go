// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

/*
Package api provides the HTTP surface of the service using the Chi router.

Endpoints:

	GET    /api/streams                      list registered streams
	POST   /api/streams                      register a stream (starts monitoring)
	GET    /api/streams/{id}                 fetch one stream
	PATCH  /api/streams/{id}/status          start/stop monitoring via status
	DELETE /api/streams/{id}                 remove a stream and its history
	GET    /api/streams/{id}/transcriptions  recent transcriptions for a stream
	GET    /api/transcriptions               recent transcriptions across streams
	GET    /api/health                       health summary
	GET    /ws                               WebSocket upgrade for live events
	GET    /metrics                          Prometheus metrics

Responses are plain JSON: list endpoints return bare arrays and errors are
{"message": "...", "field": "..."} objects, matching what the dashboard
frontend consumes. Handlers depend on small Store and MonitorController
interfaces so tests run against in-memory fakes.
*/
package api
