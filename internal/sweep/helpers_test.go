package sweep

import (
	"context"
	"testing"
	"time"

	"sweeplab/internal/param"
	"sweeplab/internal/validate"
)

// fakeClock advances instantly and records every positive wait in order.
type fakeClock struct {
	now    time.Time
	sleeps []float64
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, seconds float64) error {
	c.sleeps = append(c.sleeps, seconds)
	c.now = c.now.Add(time.Duration(seconds * float64(time.Second)))
	return nil
}

func mustSetters(t *testing.T, params ...param.Parameter) []Setter {
	t.Helper()
	setters, err := SettersOf(params...)
	if err != nil {
		t.Fatalf("bind setters: %v", err)
	}
	return setters
}

func softParam(t *testing.T, name string, initial float64) *param.SoftParameter {
	t.Helper()
	p, err := param.NewSoftParameter(name, validate.AnyNumber(), initial)
	if err != nil {
		t.Fatalf("new soft parameter %s: %v", name, err)
	}
	return p
}

// recordingParam captures every value applied through Set, in order.
func recordingParam(t *testing.T, name string, applied *[]any) *param.FuncParameter {
	t.Helper()
	p, err := param.NewFuncParameter(name, validate.AnyNumber(),
		func() (any, error) { return 0.0, nil },
		func(value any) error {
			*applied = append(*applied, value)
			return nil
		})
	if err != nil {
		t.Fatalf("new func parameter %s: %v", name, err)
	}
	return p
}

// sequenceParam returns consecutive readings on every Get.
func sequenceParam(t *testing.T, name string, next *int) *param.FuncParameter {
	t.Helper()
	p, err := param.NewFuncParameter(name, validate.AnyNumber(),
		func() (any, error) {
			*next++
			return float64(*next), nil
		}, nil)
	if err != nil {
		t.Fatalf("new func parameter %s: %v", name, err)
	}
	return p
}
