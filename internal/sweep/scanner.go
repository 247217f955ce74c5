package sweep

import (
	"errors"

	"sweeplab/internal/data"
	"sweeplab/internal/process"
)

// Scanner walks an explicit ordered sequence of value mappings, one per
// productive iteration. The first entry seeds the initial setter values.
type Scanner struct {
	*JobSweeper
	values []Values
	index  int
}

type ScannerConfig struct {
	Name          string
	Setters       []Setter
	Getters       []Getter
	Values        []Values
	DelayBegin    float64
	DelayAfterSet float64
	DelayGap      float64
	DelayEnd      float64
	Clock         process.Clock
}

func NewScanner(cfg ScannerConfig) (*Scanner, error) {
	if len(cfg.Values) == 0 {
		return nil, errors.New("scanner needs at least one value entry")
	}
	setters := seedInitials(cfg.Setters, cfg.Values[0])
	s := &Scanner{values: cfg.Values}
	base, err := newJobSweeper(SweepConfig{
		Name:          cfg.Name,
		Setters:       setters,
		Getters:       cfg.Getters,
		DelayBegin:    cfg.DelayBegin,
		DelayAfterSet: cfg.DelayAfterSet,
		DelayGap:      cfg.DelayGap,
		DelayEnd:      cfg.DelayEnd,
		Clock:         cfg.Clock,
	}, s)
	if err != nil {
		return nil, err
	}
	s.JobSweeper = base
	return s, nil
}

// seedInitials overrides setter initial values with entries from the first
// value mapping, where present.
func seedInitials(setters []Setter, first Values) []Setter {
	out := make([]Setter, len(setters))
	copy(out, setters)
	for i, setter := range out {
		if value, ok := first[setter.Key]; ok {
			out[i].Initial = value
		}
	}
	return out
}

func (s *Scanner) Values() []Values {
	out := make([]Values, len(s.values))
	copy(out, s.values)
	return out
}

// SetValues replaces the value sequence wholesale and rewinds the cursor.
// The replacement is ignored while a sweep is in progress or when the new
// sequence is empty.
func (s *Scanner) SetValues(values []Values) {
	if s.Sweeping() || len(values) == 0 {
		return
	}
	s.values = values
	s.index = 0
}

func (s *Scanner) Len() int { return len(s.values) }

// Index is the position of the next entry to emit.
func (s *Scanner) Index() int { return s.index }

func (s *Scanner) Reset() { s.index = 0 }

func (s *Scanner) Adaptive(_ *data.Record) Values {
	if s.index < len(s.values) {
		s.index++
		return s.values[s.index-1]
	}
	return nil
}
