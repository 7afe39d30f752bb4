// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

// Package supervisor provides the suture/v4-based supervision tree that
// manages Dispatchmap's long-running services.
//
// # Tree layout
//
// The root supervisor owns two child supervisors, one per failure domain:
//
//	dispatchmap (root)
//	├── messaging-layer
//	│   ├── websocket-hub      (fan-out to dashboard clients)
//	│   └── monitor-manager    (per-stream transcription schedulers)
//	└── api-layer
//	    └── http-server        (REST + WebSocket upgrade endpoint)
//
// A panic or error return in any service restarts only that service. If a
// service keeps failing past the threshold, its layer supervisor backs off
// before trying again. The layers isolate failures from each other: a hub
// crash never takes down the HTTP listener.
//
// # Service contract
//
// Every supervised component implements suture.Service:
//
//	Serve(ctx context.Context) error
//
// Serve blocks until the context is canceled or the service fails. Services
// return ctx.Err() on clean shutdown; any other error counts as a failure
// and triggers a restart. Components whose natural API is not Serve-shaped
// (such as *http.Server) get a thin wrapper in the services subpackage.
//
// # Event logging
//
// Supervisor lifecycle events (service start, failure, backoff, termination)
// are logged through sutureslog, which bridges suture's EventHook to a
// standard *slog.Logger.
//
// # Usage
//
//	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
//	if err != nil {
//	    return err
//	}
//	tree.AddMessagingService(services.NewWebSocketHubService(hub))
//	tree.AddMessagingService(manager)
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
//	return tree.Serve(ctx)
package supervisor
