// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

// Package services provides suture.Service wrappers for Dispatchmap
// components whose natural lifecycle API does not match suture's
// Serve(ctx) contract.
//
// Two wrappers exist:
//
//   - HTTPServerService adapts *http.Server's blocking ListenAndServe and
//     explicit Shutdown to a single context-driven Serve method with a
//     bounded graceful shutdown.
//   - WebSocketHubService adapts the hub's RunWithContext method, which is
//     already Serve-shaped, behind a small interface so the supervisor
//     wiring does not import the websocket package.
//
// The monitor scheduler (internal/monitor.Manager) implements
// suture.Service directly and is added to the tree without a wrapper.
//
// Each wrapper takes its dependency as an interface so tests can drive
// lifecycle behavior with mocks instead of real sockets.
package services
