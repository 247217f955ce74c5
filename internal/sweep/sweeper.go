package sweep

import (
	"context"
	"fmt"

	"sweeplab/internal/data"
	"sweeplab/internal/process"
	"sweeplab/internal/validate"
)

// Strategy supplies the adaptive half of a sweep: Reset restores the
// position cursor to its start, Adaptive returns the next setter values to
// apply (possibly after inspecting the record so far), or an empty mapping
// to signal exhaustion.
type Strategy interface {
	Reset()
	Adaptive(record *data.Record) Values
}

// JobSweeper runs a child AtomJob repeatedly under the control of a
// Strategy. Exhaustion is detected through a one-shot terminal drain pass:
// after the strategy returns empty, the child runs once more as a dry run
// performing only the closing wait, and the pass after that terminates the
// loop. A sweep of N productive values therefore records exactly N rows
// without the sweep ever knowing N in advance.
type JobSweeper struct {
	process.Base
	child    *AtomJob
	strategy Strategy
	sweeping bool
}

type SweepConfig struct {
	Name          string
	Setters       []Setter
	Getters       []Getter
	DelayBegin    float64
	DelayAfterSet float64
	DelayGap      float64
	DelayEnd      float64
	Clock         process.Clock
}

func newJobSweeper(cfg SweepConfig, strategy Strategy) (*JobSweeper, error) {
	name := cfg.Name
	if name == "" {
		name = "sweep"
	}
	if strategy == nil {
		return nil, fmt.Errorf("sweep %s: strategy is required", name)
	}
	child, err := NewAtomJob(AtomJobConfig{
		Name:          name + "_job",
		Setters:       cfg.Setters,
		Getters:       cfg.Getters,
		DelayAfterSet: cfg.DelayAfterSet,
		Clock:         cfg.Clock,
	})
	if err != nil {
		return nil, err
	}

	s := &JobSweeper{
		Base:     process.NewBase(name, cfg.Clock),
		child:    child,
		strategy: strategy,
	}
	attrs := s.Attributes()
	delay := validate.MinNumber(0)
	decls := []struct {
		name    string
		initial float64
	}{
		{AttrDelayBegin, clampDelay(cfg.DelayBegin)},
		{AttrDelayAfterSet, clampDelay(cfg.DelayAfterSet)},
		{AttrDelayGap, clampDelay(cfg.DelayGap)},
		{AttrDelayEnd, clampDelay(cfg.DelayEnd)},
	}
	if err := attrs.AddSettable(AttrT0, validate.AnyNumber(), 0.0); err != nil {
		return nil, fmt.Errorf("declare %s of %s: %w", AttrT0, name, err)
	}
	for _, d := range decls {
		if err := attrs.AddSettable(d.name, delay, d.initial); err != nil {
			return nil, fmt.Errorf("declare %s of %s: %w", d.name, name, err)
		}
	}
	return s, nil
}

// Child exposes the underlying atomic job.
func (s *JobSweeper) Child() *AtomJob { return s.child }

// Sweeping reports whether at least one productive iteration has started in
// the current run.
func (s *JobSweeper) Sweeping() bool { return s.sweeping }

func (s *JobSweeper) Record() *data.Record { return s.child.Record() }

func (s *JobSweeper) SetRecord(record *data.Record) error {
	return s.child.SetRecord(record)
}

func (s *JobSweeper) SetGroup(group *data.Group) { s.child.SetGroup(group) }

func (s *JobSweeper) PrepareRecord(name string, rebuild bool) error {
	return s.child.PrepareRecord(name, rebuild)
}

// SetGate attaches control to the sweep and its child job.
func (s *JobSweeper) SetGate(gate *process.Gate) {
	s.Base.SetGate(gate)
	s.child.SetGate(gate)
}

func (s *JobSweeper) T0() float64            { return s.Attribute(AttrT0).Float() }
func (s *JobSweeper) DelayBegin() float64    { return s.Attribute(AttrDelayBegin).Float() }
func (s *JobSweeper) DelayAfterSet() float64 { return s.Attribute(AttrDelayAfterSet).Float() }
func (s *JobSweeper) DelayGap() float64      { return s.Attribute(AttrDelayGap).Float() }
func (s *JobSweeper) DelayEnd() float64      { return s.Attribute(AttrDelayEnd).Float() }

func (s *JobSweeper) SetT0(seconds float64) {
	_ = s.Attribute(AttrT0).Set(seconds)
}

// Run executes one full sweep: setup, productive passes, drain pass.
func (s *JobSweeper) Run(ctx context.Context) error {
	return process.RunSweep(ctx, process.FuncSweeper{
		ResetFunc:   s.resetSweep,
		AdvanceFunc: s.advance,
	}, s.child)
}

// resetSweep copies the sweep timing onto the child, clears its terminal
// state and rewinds the strategy. The child's end delay is forced to zero so
// only the drain pass performs the sweep's closing wait.
func (s *JobSweeper) resetSweep() {
	s.child.SetT0(s.T0())
	s.child.SetDelayBegin(s.DelayBegin())
	s.child.SetDelayAfterSet(s.DelayAfterSet())
	s.child.SetDelayEnd(0)
	s.child.SetDryRun(false)
	s.sweeping = false
	s.strategy.Reset()
}

// advance is consulted once before every child pass. A dry-run flag already
// set on entry means the previous pass was the drain execution, so the loop
// terminates. Otherwise the strategy decides: non-empty values configure the
// next productive pass, empty values configure the drain pass. Keys without
// a settable-limited mirrored attribute are dropped, favoring robustness of
// long-running sweeps over strict validation.
func (s *JobSweeper) advance(_ context.Context, _ process.Process) (bool, error) {
	job := s.child
	if job.DryRun() {
		return false, nil
	}
	values := s.strategy.Adaptive(job.Record())
	if len(values) == 0 {
		job.SetDelayBegin(0)
		job.SetDelayEnd(s.DelayEnd())
		job.SetDryRun(true)
		return true, nil
	}
	for key, value := range values {
		attr := job.sweepTarget(key)
		if attr == nil {
			continue
		}
		if err := attr.Set(value); err != nil {
			return false, fmt.Errorf("drive %s: %w", key, err)
		}
	}
	if s.sweeping {
		job.SetDelayBegin(s.DelayGap())
	} else {
		// First productive pass keeps the configured begin delay.
		s.sweeping = true
	}
	return true, nil
}

var _ process.Process = (*JobSweeper)(nil)
