package websocket

import (
	"context"
	"testing"
	"time"

	"visionserver/internal/logger"
)

func TestHub_RegisterAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHubService(logger.New(t.TempDir()))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancellation")
	}

	// An in-flight handler goroutine reaching the hub after shutdown must
	// return instead of hanging until the HTTP shutdown deadline.
	finished := make(chan struct{})
	go func() {
		hub.Register(nil)
		hub.Unregister(nil)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Register/Unregister blocked after hub shutdown")
	}
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHubService(logger.New(t.TempDir()))

	// No Run loop draining: saturate the broadcast channel past capacity.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast([]byte("alert"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a saturated channel")
	}
}
