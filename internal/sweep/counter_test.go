package sweep

import (
	"context"
	"testing"
)

func newTestCounter(t *testing.T, times int, cfg CounterConfig) (*Counter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	next := 0
	cfg.Times = times
	cfg.Clock = clock
	if cfg.Getters == nil {
		cfg.Getters = GettersOf(sequenceParam(t, "reading", &next))
	}
	counter, err := NewCounter(cfg)
	if err != nil {
		t.Fatalf("new counter: %v", err)
	}
	return counter, clock
}

func TestCounterProducesExactlyTimesRows(t *testing.T) {
	ctx := context.Background()
	counter, _ := newTestCounter(t, 3, CounterConfig{Name: "count"})
	if err := counter.PrepareRecord("count", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}

	if err := counter.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if counter.Record().Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", counter.Record().Rows())
	}
	if counter.Index() != 3 {
		t.Fatalf("expected index 3, got %d", counter.Index())
	}
	// the drain pass leaves the child flagged as the terminal dry run
	if !counter.Child().DryRun() {
		t.Fatal("drain pass did not mark the child dry-run")
	}
}

func TestCounterReadingsAdvancePerPass(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	next := 0
	counter, err := NewCounter(CounterConfig{
		Getters: GettersOf(sequenceParam(t, "reading", &next)),
		Times:   3,
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("new counter: %v", err)
	}
	if err := counter.PrepareRecord("count", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}
	if err := counter.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	readings, err := counter.Record().ColumnValues("reading")
	if err != nil {
		t.Fatalf("column values: %v", err)
	}
	want := []float64{1, 2, 3}
	for i, reading := range readings {
		if reading.(float64) != want[i] {
			t.Fatalf("row %d: want %v, got %v", i, want[i], reading)
		}
	}
	// the drain pass must not have read the instrument a 4th time
	if next != 3 {
		t.Fatalf("expected 3 instrument reads, got %d", next)
	}
}

func TestCounterDelaySchedule(t *testing.T) {
	ctx := context.Background()
	counter, clock := newTestCounter(t, 3, CounterConfig{
		DelayBegin: 1.0,
		DelayGap:   0.5,
		DelayEnd:   0.25,
	})
	if err := counter.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	// first pass waits delay_begin, later passes delay_gap, drain delay_end
	want := []float64{1.0, 0.5, 0.5, 0.25}
	if len(clock.sleeps) != len(want) {
		t.Fatalf("unexpected waits: %v", clock.sleeps)
	}
	for i, w := range want {
		if clock.sleeps[i] != w {
			t.Fatalf("wait %d: want %v, got %v", i, w, clock.sleeps[i])
		}
	}
}

func TestCounterConstructionErrors(t *testing.T) {
	clock := newFakeClock()
	if _, err := NewCounter(CounterConfig{Times: 3, Clock: clock}); err == nil {
		t.Fatal("expected construction to fail without getters")
	}
	next := 0
	getters := GettersOf(sequenceParam(t, "reading", &next))
	if _, err := NewCounter(CounterConfig{Getters: getters, Times: 0, Clock: clock}); err == nil {
		t.Fatal("expected construction to fail with times 0")
	}
	if _, err := NewCounter(CounterConfig{Getters: getters, Times: -2, Clock: clock}); err == nil {
		t.Fatal("expected construction to fail with negative times")
	}
}

func TestCounterAdaptiveSequence(t *testing.T) {
	counter, _ := newTestCounter(t, 2, CounterConfig{})
	counter.Reset()

	for i := 0; i < 2; i++ {
		values := counter.Adaptive(nil)
		if len(values) == 0 {
			t.Fatalf("advance %d: expected sentinel values", i)
		}
		if running, ok := values["running"].(bool); !ok || !running {
			t.Fatalf("advance %d: unexpected sentinel %v", i, values)
		}
	}
	if values := counter.Adaptive(nil); len(values) != 0 {
		t.Fatalf("expected exhaustion, got %v", values)
	}
	if values := counter.Adaptive(nil); len(values) != 0 {
		t.Fatalf("exhaustion is not stable: %v", values)
	}
}

func TestCounterResetIdempotent(t *testing.T) {
	counter, _ := newTestCounter(t, 5, CounterConfig{})
	counter.Adaptive(nil)
	counter.Adaptive(nil)
	if counter.Index() != 2 {
		t.Fatalf("expected index 2, got %d", counter.Index())
	}
	counter.Reset()
	counter.Reset()
	if counter.Index() != 0 {
		t.Fatalf("expected index 0 after reset, got %d", counter.Index())
	}
}

func TestCounterRunTwiceAppendsAgain(t *testing.T) {
	ctx := context.Background()
	counter, _ := newTestCounter(t, 2, CounterConfig{})
	if err := counter.PrepareRecord("count", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}
	if err := counter.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := counter.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if counter.Record().Rows() != 4 {
		t.Fatalf("expected 4 rows across two runs, got %d", counter.Record().Rows())
	}
}
