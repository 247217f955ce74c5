package process

import (
	"context"

	"sweeplab/internal/param"
)

// Base carries the shared state of a process node: its name, its attribute
// set, its clock, and an optional control gate. Jobs embed Base and declare
// their configuration as attributes on it.
type Base struct {
	name  string
	attrs *param.Attributes
	clock Clock
	gate  *Gate
}

func NewBase(name string, clock Clock) Base {
	if clock == nil {
		clock = SystemClock{}
	}
	return Base{name: name, attrs: param.NewAttributes(), clock: clock}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Attributes() *param.Attributes { return b.attrs }

// Attribute is a lookup shortcut; nil when the name is undeclared.
func (b *Base) Attribute(name string) *param.Attribute {
	return b.attrs.Get(name)
}

func (b *Base) Clock() Clock { return b.clock }

// SetGate attaches a control gate. Processes without a gate run ungoverned.
func (b *Base) SetGate(gate *Gate) { b.gate = gate }

func (b *Base) Gate() *Gate { return b.gate }

// Checkpoint applies pending pause/stop control, if a gate is attached.
func (b *Base) Checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.gate == nil {
		return nil
	}
	return b.gate.Check(ctx)
}

// Wait suspends for the given number of seconds, honoring control first.
func (b *Base) Wait(ctx context.Context, seconds float64) error {
	if err := b.Checkpoint(ctx); err != nil {
		return err
	}
	if seconds <= 0 {
		return nil
	}
	return b.clock.Sleep(ctx, seconds)
}
