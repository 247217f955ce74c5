package sweep

import (
	"context"
	"testing"
)

func TestScannerAppliesValuesInOrder(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	var applied []any
	scanner, err := NewScanner(ScannerConfig{
		Name:    "scan",
		Setters: mustSetters(t, recordingParam(t, "bias", &applied)),
		Values:  []Values{{"bias": 1.0}, {"bias": 2.0}, {"bias": 3.0}},
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	if err := scanner.PrepareRecord("scan", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}

	if err := scanner.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []float64{1.0, 2.0, 3.0}
	if len(applied) != len(want) {
		t.Fatalf("expected %d applied values, got %v", len(want), applied)
	}
	for i, w := range want {
		if applied[i].(float64) != w {
			t.Fatalf("applied %d: want %v, got %v", i, w, applied[i])
		}
	}
	if scanner.Record().Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", scanner.Record().Rows())
	}
	biases, err := scanner.Record().ColumnValues("bias")
	if err != nil {
		t.Fatalf("column values: %v", err)
	}
	for i, w := range want {
		if biases[i].(float64) != w {
			t.Fatalf("row %d: want bias %v, got %v", i, w, biases[i])
		}
	}
}

func TestScannerSeedsInitialFromFirstEntry(t *testing.T) {
	setters, err := SettersWithValues(Values{"bias": 0.0}, softParam(t, "bias", 0.0))
	if err != nil {
		t.Fatalf("bind setters: %v", err)
	}
	scanner, err := NewScanner(ScannerConfig{
		Setters: setters,
		Values:  []Values{{"bias": 7.5}, {"bias": 8.0}},
		Clock:   newFakeClock(),
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	attr := scanner.Child().Attribute("bias")
	if attr == nil {
		t.Fatal("bias attribute not mirrored on child")
	}
	if got := attr.Float(); got != 7.5 {
		t.Fatalf("expected seeded initial 7.5, got %v", got)
	}
}

func TestScannerRequiresValues(t *testing.T) {
	_, err := NewScanner(ScannerConfig{
		Setters: mustSetters(t, softParam(t, "bias", 0.0)),
		Clock:   newFakeClock(),
	})
	if err == nil {
		t.Fatal("expected construction to fail without values")
	}
}

func TestScannerAdaptiveExhausts(t *testing.T) {
	scanner, err := NewScanner(ScannerConfig{
		Setters: mustSetters(t, softParam(t, "bias", 0.0)),
		Values:  []Values{{"bias": 1.0}, {"bias": 2.0}},
		Clock:   newFakeClock(),
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	scanner.Reset()
	if values := scanner.Adaptive(nil); values["bias"] != 1.0 {
		t.Fatalf("first entry: got %v", values)
	}
	if values := scanner.Adaptive(nil); values["bias"] != 2.0 {
		t.Fatalf("second entry: got %v", values)
	}
	if values := scanner.Adaptive(nil); len(values) != 0 {
		t.Fatalf("expected exhaustion, got %v", values)
	}
	if scanner.Index() != scanner.Len() {
		t.Fatalf("index %d after exhaustion, len %d", scanner.Index(), scanner.Len())
	}
}

func TestScannerSetValuesIdleOnly(t *testing.T) {
	scanner, err := NewScanner(ScannerConfig{
		Setters: mustSetters(t, softParam(t, "bias", 0.0)),
		Values:  []Values{{"bias": 1.0}},
		Clock:   newFakeClock(),
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}

	// empty replacements are ignored
	scanner.SetValues(nil)
	if scanner.Len() != 1 {
		t.Fatalf("empty replacement changed values: len %d", scanner.Len())
	}

	// while a sweep is mid-flight the cursor and sequence stay untouched
	ctx := context.Background()
	if _, err := scanner.advance(ctx, scanner.Child()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !scanner.Sweeping() {
		t.Fatal("expected sweep to be in flight after a productive advance")
	}
	scanner.SetValues([]Values{{"bias": 9.0}, {"bias": 10.0}})
	if scanner.Len() != 1 || scanner.Index() != 1 {
		t.Fatalf("mid-sweep replacement applied: len %d index %d",
			scanner.Len(), scanner.Index())
	}

	// idle again: replacement takes and rewinds the cursor
	scanner.resetSweep()
	scanner.SetValues([]Values{{"bias": 9.0}, {"bias": 10.0}})
	if scanner.Len() != 2 || scanner.Index() != 0 {
		t.Fatalf("idle replacement ignored: len %d index %d",
			scanner.Len(), scanner.Index())
	}
}

func TestScannerDropsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	var applied []any
	scanner, err := NewScanner(ScannerConfig{
		Setters: mustSetters(t, recordingParam(t, "bias", &applied)),
		Values: []Values{
			{"bias": 1.0, "phantom": 99.0},
			{"bias": 2.0, "ghost": "whatever"},
		},
		Clock: newFakeClock(),
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	if err := scanner.PrepareRecord("scan", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}
	if err := scanner.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(applied) != 2 {
		t.Fatalf("expected 2 applied values, got %v", applied)
	}
	if scanner.Record().Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", scanner.Record().Rows())
	}
}

func TestScannerDriveErrorAbortsRun(t *testing.T) {
	ctx := context.Background()
	scanner, err := NewScanner(ScannerConfig{
		Setters: mustSetters(t, softParam(t, "bias", 0.0)),
		Values:  []Values{{"bias": 1.0}, {"bias": "not a number"}},
		Clock:   newFakeClock(),
	})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	if err := scanner.PrepareRecord("scan", false); err != nil {
		t.Fatalf("prepare record: %v", err)
	}
	if err := scanner.Run(ctx); err == nil {
		t.Fatal("expected run to fail on an invalid drive value")
	}
	// the first pass completed before the invalid second entry
	if scanner.Record().Rows() != 1 {
		t.Fatalf("expected 1 row before the failure, got %d", scanner.Record().Rows())
	}
}
