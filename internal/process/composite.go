package process

import (
	"context"
	"errors"
	"fmt"
)

// Sweeper drives a child process from outside: Reset reinitializes
// driver-owned cursor state once per sweep run, Advance is consulted after
// each child execution and reports whether the child runs again. The
// indirection lets plain functions drive a sweep without being processes
// themselves.
type Sweeper interface {
	Reset()
	Advance(ctx context.Context, child Process) (bool, error)
}

// FuncSweeper adapts a pair of plain functions into a Sweeper.
type FuncSweeper struct {
	ResetFunc   func()
	AdvanceFunc func(ctx context.Context, child Process) (bool, error)
}

func (s FuncSweeper) Reset() {
	if s.ResetFunc != nil {
		s.ResetFunc()
	}
}

func (s FuncSweeper) Advance(ctx context.Context, child Process) (bool, error) {
	if s.AdvanceFunc == nil {
		return false, nil
	}
	return s.AdvanceFunc(ctx, child)
}

// RunSweep is the generic sweep loop: reset the sweeper, then alternate
// "consult the sweeper" and "run child" until the sweeper declines to
// continue. Advance is called once before the first pass and once after
// every pass; each call completes fully before the next pass starts, and a
// pass completes fully before Advance is consulted again.
func RunSweep(ctx context.Context, sweeper Sweeper, child Process) error {
	if sweeper == nil {
		return errors.New("sweeper is required")
	}
	if child == nil {
		return errors.New("child process is required")
	}
	sweeper.Reset()
	for {
		again, err := sweeper.Advance(ctx, child)
		if err != nil {
			return fmt.Errorf("advance %s: %w", child.Name(), err)
		}
		if !again {
			return nil
		}
		if err := child.Run(ctx); err != nil {
			return fmt.Errorf("run %s: %w", child.Name(), err)
		}
	}
}

// Series runs multiple processes back to back in declaration order.
type Series struct {
	Base
	children []Process
}

func NewSeries(name string, clock Clock, children ...Process) *Series {
	s := &Series{Base: NewBase(name, clock)}
	s.children = append(s.children, children...)
	return s
}

func (s *Series) Run(ctx context.Context) error {
	for _, child := range s.children {
		if err := s.Checkpoint(ctx); err != nil {
			return err
		}
		if err := child.Run(ctx); err != nil {
			return fmt.Errorf("run %s: %w", child.Name(), err)
		}
	}
	return nil
}
