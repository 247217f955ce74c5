package process

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateCheckPassesWhenOpen(t *testing.T) {
	gate := NewGate()
	if err := gate.Check(context.Background()); err != nil {
		t.Fatalf("open gate blocked: %v", err)
	}
}

func TestGateCheckReturnsErrStoppedAfterStop(t *testing.T) {
	gate := NewGate()
	gate.Stop()
	if err := gate.Check(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	// stop is terminal
	gate.Resume()
	if err := gate.Check(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after resume, got %v", err)
	}
}

func TestGatePauseBlocksUntilResume(t *testing.T) {
	gate := NewGate()
	gate.Pause()

	released := make(chan error, 1)
	go func() {
		released <- gate.Check(context.Background())
	}()

	select {
	case err := <-released:
		t.Fatalf("paused gate released early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	gate.Resume()
	select {
	case err := <-released:
		if err != nil {
			t.Fatalf("resume released with error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("resume did not release the blocked check")
	}
}

func TestGateStopReleasesPausedCheck(t *testing.T) {
	gate := NewGate()
	gate.Pause()

	released := make(chan error, 1)
	go func() {
		released <- gate.Check(context.Background())
	}()

	gate.Stop()
	select {
	case err := <-released:
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("expected ErrStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("stop did not release the blocked check")
	}
}

func TestGateCheckHonorsContextWhilePaused(t *testing.T) {
	gate := NewGate()
	gate.Pause()

	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan error, 1)
	go func() {
		released <- gate.Check(ctx)
	}()

	cancel()
	select {
	case err := <-released:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancellation did not release the blocked check")
	}
}
