// Dispatchmap - Public Safety Radio Monitoring and Geographic Visualization
// Copyright 2026 Dispatchmap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dispatchmap/dispatchmap

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockContextHub is a test double for ContextHub interface.
type mockContextHub struct {
	runCount atomic.Int32
	runErr   error
	started  chan struct{}
}

func newMockContextHub() *mockContextHub {
	return &mockContextHub{started: make(chan struct{}, 1)}
}

func (m *mockContextHub) RunWithContext(ctx context.Context) error {
	m.runCount.Add(1)

	select {
	case m.started <- struct{}{}:
	default:
	}

	if m.runErr != nil {
		return m.runErr
	}

	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService_Interface(t *testing.T) {
	// Verify WebSocketHubService implements suture.Service
	var _ suture.Service = (*WebSocketHubService)(nil)
}

func TestNewWebSocketHubService(t *testing.T) {
	hub := newMockContextHub()
	svc := NewWebSocketHubService(hub)

	if svc == nil {
		t.Fatal("NewWebSocketHubService returned nil")
	}
	if svc.hub != hub {
		t.Error("hub not assigned correctly")
	}
	if svc.String() != "websocket-hub" {
		t.Errorf("expected 'websocket-hub', got %q", svc.String())
	}
}

func TestWebSocketHubService_Serve(t *testing.T) {
	t.Run("returns ctx error on cancellation", func(t *testing.T) {
		hub := newMockContextHub()
		svc := NewWebSocketHubService(hub)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		select {
		case <-hub.started:
		case <-time.After(time.Second):
			t.Fatal("hub did not start")
		}

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancellation")
		}
	})

	t.Run("propagates hub failure", func(t *testing.T) {
		hubErr := errors.New("hub crashed")
		hub := newMockContextHub()
		hub.runErr = hubErr
		svc := NewWebSocketHubService(hub)

		if err := svc.Serve(context.Background()); !errors.Is(err, hubErr) {
			t.Errorf("expected hub error, got %v", err)
		}
	})
}

func TestWebSocketHubService_WithSupervisor(t *testing.T) {
	hub := newMockContextHub()
	svc := NewWebSocketHubService(hub)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errCh := sup.ServeBackground(ctx)

	select {
	case <-hub.started:
	case <-time.After(time.Second):
		t.Fatal("hub did not start under supervision")
	}

	cancel()
	<-errCh

	if hub.runCount.Load() < 1 {
		t.Error("hub RunWithContext was not called")
	}
}
