package sweep

import (
	"errors"
	"fmt"

	"sweeplab/internal/data"
	"sweeplab/internal/process"
)

// Axis is one dimension of a Cartesian sweep grid: a setter key and its
// ordered candidate values.
type Axis struct {
	Key        string
	Candidates []any
}

// GridScanner enumerates the Cartesian product of its axes exactly once per
// combination, axis 0 varying fastest. Traversal uses a mixed-radix
// odometer: one digit per axis plus a carry-out digit that flips to 1 when
// the grid is exhausted and is never cleared again until Reset.
type GridScanner struct {
	*JobSweeper
	grid  []Axis
	shape []int
	index []int
}

type GridConfig struct {
	Name          string
	Setters       []Setter
	Axes          []Axis
	Getters       []Getter
	DelayBegin    float64
	DelayAfterSet float64
	DelayGap      float64
	DelayEnd      float64
	Clock         process.Clock
}

func NewGridScanner(cfg GridConfig) (*GridScanner, error) {
	if err := checkGrid(cfg.Axes); err != nil {
		return nil, err
	}
	seed := make(Values, len(cfg.Axes))
	for _, axis := range cfg.Axes {
		seed[axis.Key] = axis.Candidates[0]
	}
	g := &GridScanner{}
	base, err := newJobSweeper(SweepConfig{
		Name:          cfg.Name,
		Setters:       seedInitials(cfg.Setters, seed),
		Getters:       cfg.Getters,
		DelayBegin:    cfg.DelayBegin,
		DelayAfterSet: cfg.DelayAfterSet,
		DelayGap:      cfg.DelayGap,
		DelayEnd:      cfg.DelayEnd,
		Clock:         cfg.Clock,
	}, g)
	if err != nil {
		return nil, err
	}
	g.JobSweeper = base
	g.applyGrid(cfg.Axes)
	return g, nil
}

func checkGrid(axes []Axis) error {
	if len(axes) == 0 {
		return errors.New("empty value grid to scan")
	}
	for i, axis := range axes {
		if axis.Key == "" {
			return fmt.Errorf("grid axis %d has no key", i)
		}
		if len(axis.Candidates) == 0 {
			return fmt.Errorf("grid axis %s has no candidates", axis.Key)
		}
	}
	return nil
}

func (g *GridScanner) applyGrid(axes []Axis) {
	g.grid = make([]Axis, len(axes))
	copy(g.grid, axes)
	g.shape = make([]int, len(axes))
	for i, axis := range axes {
		g.shape[i] = len(axis.Candidates)
	}
	// one digit per axis plus the carry-out digit
	g.index = make([]int, len(axes)+1)
}

func (g *GridScanner) Grid() []Axis {
	out := make([]Axis, len(g.grid))
	copy(out, g.grid)
	return out
}

// SetGrid replaces the grid wholesale, resetting shape and cursor. The
// replacement is ignored while a sweep is in progress or when the new grid
// is invalid.
func (g *GridScanner) SetGrid(axes []Axis) {
	if g.Sweeping() || checkGrid(axes) != nil {
		return
	}
	g.applyGrid(axes)
}

// Shape is the per-axis candidate count.
func (g *GridScanner) Shape() []int {
	out := make([]int, len(g.shape))
	copy(out, g.shape)
	return out
}

// Index is the current pre-increment digit vector, excluding the carry-out
// digit.
func (g *GridScanner) Index() []int {
	out := make([]int, len(g.index)-1)
	copy(out, g.index)
	return out
}

func (g *GridScanner) Reset() {
	for i := range g.index {
		g.index[i] = 0
	}
}

func (g *GridScanner) Adaptive(_ *data.Record) Values {
	carry := len(g.index) - 1
	if g.index[carry] != 0 {
		return nil
	}
	// Build the combination under the current digits before incrementing,
	// so the first call emits the all-zero combination.
	values := make(Values, len(g.grid))
	for i, axis := range g.grid {
		values[axis.Key] = axis.Candidates[g.index[i]]
	}
	for i := range g.index {
		g.index[i]++
		if i == carry || g.index[i] < g.shape[i] {
			break
		}
		g.index[i] = 0
	}
	return values
}
