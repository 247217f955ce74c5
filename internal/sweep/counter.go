package sweep

import (
	"errors"
	"fmt"

	"sweeplab/internal/data"
	"sweeplab/internal/process"
	"sweeplab/internal/validate"
)

// Counter repeats a readout a fixed number of times. It drives no setters;
// the sentinel mapping it returns while counting keeps the run loop going
// and is dropped by the driver for lack of a matching attribute.
type Counter struct {
	*JobSweeper
	index int
}

type CounterConfig struct {
	Name       string
	Getters    []Getter
	Times      int
	DelayBegin float64
	DelayGap   float64
	DelayEnd   float64
	Clock      process.Clock
}

func NewCounter(cfg CounterConfig) (*Counter, error) {
	c := &Counter{}
	base, err := newJobSweeper(SweepConfig{
		Name:       cfg.Name,
		Getters:    cfg.Getters,
		DelayBegin: cfg.DelayBegin,
		DelayGap:   cfg.DelayGap,
		DelayEnd:   cfg.DelayEnd,
		Clock:      cfg.Clock,
	}, c)
	if err != nil {
		return nil, err
	}
	if len(base.Child().Getters()) == 0 {
		return nil, errors.New("counter needs at least one getter")
	}
	if cfg.Times < 1 {
		return nil, fmt.Errorf("counter times must be positive, got %d", cfg.Times)
	}
	if err := base.Attributes().AddSettable("times", validate.MinInt(1), cfg.Times); err != nil {
		return nil, err
	}
	c.JobSweeper = base
	return c, nil
}

func (c *Counter) Times() int {
	n, _ := c.Attribute("times").Value().(int)
	return n
}

// Index is the number of productive advances performed so far.
func (c *Counter) Index() int { return c.index }

func (c *Counter) Reset() { c.index = 0 }

func (c *Counter) Adaptive(_ *data.Record) Values {
	if c.index < c.Times() {
		c.index++
		return Values{"running": true}
	}
	return nil
}
