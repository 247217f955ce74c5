// Package process is the cooperative scheduling substrate for jobs and
// sweeps. A process runs to completion on one logical thread of control;
// every wait goes through the Clock so the only suspension points are the
// declared delays, and pause/stop control is applied between them.
package process

import (
	"context"
	"errors"
	"time"
)

var ErrStopped = errors.New("process stopped")

// Process is one runnable node in the job tree.
type Process interface {
	Name() string
	Run(ctx context.Context) error
}

// Clock supplies the current time and the suspension primitive. Durations
// are in seconds, matching the delay attributes of jobs.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, seconds float64) error
}

// SystemClock is the wall-clock implementation used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, seconds float64) error {
	if seconds <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
