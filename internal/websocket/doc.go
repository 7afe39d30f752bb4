// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

/*
Package websocket provides real-time delivery of transcription events to
dashboard clients.

This package implements WebSocket support for broadcasting transcription
events and stream status transitions to connected frontend clients. It uses
the gorilla/websocket library with a hub-client architecture for efficient
message broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Message: Typed envelope ({"type": ..., "payload": ...}) for event types

Message Types:

  - transcription: a new transcription produced by a monitored stream
  - stream_status: a stream status transition (active, inactive, error)
  - ping/pong: application-level keepalive initiated by clients

Delivery Semantics:

Broadcasts are best-effort. There is no persistence or replay inside the hub:
a client that connects after an event was broadcast never receives it (it
fetches history over the REST API instead), and a client whose send buffer is
full is dropped rather than allowed to stall the broadcast loop.

Connection Lifecycle:

 1. Client connects via HTTP upgrade on /ws
 2. Hub registers client
 3. Client starts read/write goroutines
 4. Hub broadcasts messages to all clients
 5. Client disconnects (network error or explicit close)
 6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/api: WebSocket endpoint handler
  - internal/monitor: Transcription event producer
*/
package websocket
