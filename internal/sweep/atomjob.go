package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"sweeplab/internal/data"
	"sweeplab/internal/param"
	"sweeplab/internal/process"
	"sweeplab/internal/validate"
)

// Configuration attribute names shared by atomic jobs and sweeps.
const (
	AttrT0            = "t0"
	AttrDelayBegin    = "delay_begin"
	AttrDelayAfterSet = "delay_after_set"
	AttrDelayGap      = "delay_gap"
	AttrDelayEnd      = "delay_end"
	AttrDryRun        = "is_dryrun"
)

var ErrSchemaMismatch = errors.New("record schema mismatch")

// AtomJob executes exactly one measurement cycle: wait, apply setters, wait,
// read getters, append one row, wait. A sweep driver repeats it by mutating
// its configuration attributes between passes.
type AtomJob struct {
	process.Base
	setters []Setter
	getters []Getter
	columns []data.Column
	record  *data.Record
	group   *data.Group
}

type AtomJobConfig struct {
	Name          string
	Setters       []Setter
	Getters       []Getter
	DelayBegin    float64
	DelayAfterSet float64
	DelayEnd      float64
	Clock         process.Clock
}

func NewAtomJob(cfg AtomJobConfig) (*AtomJob, error) {
	name := cfg.Name
	if name == "" {
		name = "atom_job"
	}
	j := &AtomJob{Base: process.NewBase(name, cfg.Clock)}

	attrs := j.Attributes()
	delay := validate.MinNumber(0)
	decls := []struct {
		name      string
		validator validate.Validator
		initial   any
	}{
		{AttrT0, validate.AnyNumber(), 0.0},
		{AttrDelayBegin, delay, clampDelay(cfg.DelayBegin)},
		{AttrDelayAfterSet, delay, clampDelay(cfg.DelayAfterSet)},
		{AttrDelayEnd, delay, clampDelay(cfg.DelayEnd)},
		{AttrDryRun, validate.Bool{}, false},
	}
	for _, d := range decls {
		if err := attrs.AddSettable(d.name, d.validator, d.initial); err != nil {
			return nil, fmt.Errorf("declare %s of %s: %w", d.name, name, err)
		}
	}

	j.columns = []data.Column{{Name: "timestamp", Unit: "s", Dependent: false}}
	for _, setter := range cfg.Setters {
		if setter.Key == "" || setter.Param == nil {
			continue
		}
		if err := attrs.AddSettable(setter.Key, setter.Param.Validator(), setter.Initial); err != nil {
			return nil, fmt.Errorf("setter %s of %s: %w", setter.Key, name, err)
		}
		j.setters = append(j.setters, setter)
		j.columns = append(j.columns, data.Column{Name: setter.Key, Dependent: false})
	}
	seen := make(map[string]bool, len(cfg.Getters))
	for _, getter := range cfg.Getters {
		if getter.Key == "" || getter.Param == nil {
			continue
		}
		if attrs.Get(getter.Key) != nil || seen[getter.Key] {
			return nil, fmt.Errorf("getter %s of %s: duplicate key", getter.Key, name)
		}
		seen[getter.Key] = true
		j.getters = append(j.getters, getter)
		j.columns = append(j.columns, data.Column{Name: getter.Key, Dependent: true})
	}
	return j, nil
}

func clampDelay(seconds float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) {
		return 0
	}
	return seconds
}

func (j *AtomJob) Setters() []Setter { return j.setters }
func (j *AtomJob) Getters() []Getter { return j.getters }

func (j *AtomJob) Columns() []data.Column {
	out := make([]data.Column, len(j.columns))
	copy(out, j.columns)
	return out
}

func (j *AtomJob) Record() *data.Record { return j.record }

// SetRecord binds an existing record. The record must already contain every
// column the job declares; a mismatched record is rejected whole.
func (j *AtomJob) SetRecord(record *data.Record) error {
	if record == nil {
		return errors.New("record is required")
	}
	for _, col := range j.columns {
		if !record.HasColumn(col.Name) {
			return fmt.Errorf("%w: record %s has no column %s",
				ErrSchemaMismatch, record.Name(), col.Name)
		}
	}
	j.record = record
	return nil
}

// SetGroup attaches the data group that PrepareRecord registers records on.
func (j *AtomJob) SetGroup(group *data.Group) { j.group = group }

func (j *AtomJob) Group() *data.Group { return j.group }

// PrepareRecord lazily constructs a record from the job's own columns, or
// forces reconstruction when rebuild is set.
func (j *AtomJob) PrepareRecord(name string, rebuild bool) error {
	if j.record != nil && !rebuild {
		return nil
	}
	record, err := data.NewRecord(name, j.columns)
	if err != nil {
		return err
	}
	j.record = record
	if j.group != nil {
		if err := j.group.AddRecord(record); err != nil {
			return err
		}
	}
	return nil
}

func (j *AtomJob) T0() float64            { return j.floatAttr(AttrT0) }
func (j *AtomJob) DelayBegin() float64    { return j.floatAttr(AttrDelayBegin) }
func (j *AtomJob) DelayAfterSet() float64 { return j.floatAttr(AttrDelayAfterSet) }
func (j *AtomJob) DelayEnd() float64      { return j.floatAttr(AttrDelayEnd) }

func (j *AtomJob) DryRun() bool {
	return j.Attribute(AttrDryRun).Bool()
}

func (j *AtomJob) SetT0(seconds float64) { j.setAttr(AttrT0, seconds) }

func (j *AtomJob) SetDelayBegin(seconds float64) {
	j.setAttr(AttrDelayBegin, clampDelay(seconds))
}

func (j *AtomJob) SetDelayAfterSet(seconds float64) {
	j.setAttr(AttrDelayAfterSet, clampDelay(seconds))
}

func (j *AtomJob) SetDelayEnd(seconds float64) {
	j.setAttr(AttrDelayEnd, clampDelay(seconds))
}

func (j *AtomJob) SetDryRun(dryrun bool) { j.setAttr(AttrDryRun, dryrun) }

func (j *AtomJob) floatAttr(name string) float64 {
	return j.Attribute(name).Float()
}

func (j *AtomJob) setAttr(name string, value any) {
	// Configuration attributes are declared in the constructor with
	// validators these values always satisfy.
	_ = j.Attribute(name).Set(value)
}

// Run performs one measurement cycle.
func (j *AtomJob) Run(ctx context.Context) error {
	if err := j.Wait(ctx, j.DelayBegin()); err != nil {
		return err
	}

	now := j.Clock().Now()
	values := map[string]any{
		"timestamp": float64(now.UnixNano())/float64(time.Second) - j.T0(),
	}
	dryrun := j.DryRun()

	if len(j.setters) > 0 && !dryrun {
		for _, setter := range j.setters {
			attr := j.Attribute(setter.Key)
			if err := setter.Param.Set(attr.Value()); err != nil {
				return fmt.Errorf("apply setter %s: %w", setter.Key, err)
			}
			values[setter.Key] = attr.Value()
		}
		if err := j.Wait(ctx, j.DelayAfterSet()); err != nil {
			return err
		}
	}

	if len(j.getters) > 0 && !dryrun {
		for _, getter := range j.getters {
			value, err := getter.Param.Get()
			if err != nil {
				return fmt.Errorf("read getter %s: %w", getter.Key, err)
			}
			values[getter.Key] = value
		}
	}

	if j.record != nil && !dryrun {
		if err := j.record.AddRow(values); err != nil {
			return fmt.Errorf("record row in %s: %w", j.record.Name(), err)
		}
	}

	return j.Wait(ctx, j.DelayEnd())
}

var _ process.Process = (*AtomJob)(nil)

// sweepTarget returns the mirrored attribute for key when it exists and is
// settable-limited, nil otherwise.
func (j *AtomJob) sweepTarget(key string) *param.Attribute {
	attr := j.Attribute(key)
	if attr == nil || !attr.Settable() {
		return nil
	}
	return attr
}
