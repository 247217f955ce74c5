// Package config loads experiment procedures from YAML files and
// materializes them into runnable sweep jobs backed by soft parameters.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sweeplab/internal/param"
	"sweeplab/internal/process"
	"sweeplab/internal/sweep"
	"sweeplab/internal/validate"
)

// Procedure is one experiment definition: where results go and which job to
// run.
type Procedure struct {
	Name    string      `yaml:"name"`
	Backend BackendSpec `yaml:"backend"`
	Group   GroupSpec   `yaml:"group"`
	Job     JobSpec     `yaml:"job"`
}

type BackendSpec struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type GroupSpec struct {
	Name string         `yaml:"name"`
	Meta map[string]any `yaml:"meta"`
}

type JobSpec struct {
	Kind          string           `yaml:"kind"`
	Record        string           `yaml:"record"`
	DelayBegin    float64          `yaml:"delay_begin"`
	DelayAfterSet float64          `yaml:"delay_after_set"`
	DelayGap      float64          `yaml:"delay_gap"`
	DelayEnd      float64          `yaml:"delay_end"`
	Times         int              `yaml:"times"`
	Parameters    []ParameterSpec  `yaml:"parameters"`
	Values        []map[string]any `yaml:"values"`
	Axes          []AxisSpec       `yaml:"axes"`
}

type ParameterSpec struct {
	Name    string   `yaml:"name"`
	Role    string   `yaml:"role"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Initial float64  `yaml:"initial"`
}

type AxisSpec struct {
	Key        string `yaml:"key"`
	Candidates []any  `yaml:"candidates"`
}

// Job kinds accepted in procedure files.
const (
	KindAtom  = "atom"
	KindCount = "count"
	KindScan  = "scan"
	KindGrid  = "grid"
)

func LoadProcedure(path string) (*Procedure, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Procedure
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse procedure %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("procedure %s: %w", path, err)
	}
	return &p, nil
}

func (p *Procedure) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	switch p.Job.Kind {
	case KindAtom, KindCount, KindScan, KindGrid:
	case "":
		return errors.New("job kind is required")
	default:
		return fmt.Errorf("unknown job kind: %s", p.Job.Kind)
	}
	if p.Job.Record == "" {
		return errors.New("job record name is required")
	}
	if len(p.Job.Parameters) == 0 {
		return errors.New("job needs at least one parameter")
	}
	for i, spec := range p.Job.Parameters {
		if spec.Name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
		switch spec.Role {
		case "setter", "getter":
		default:
			return fmt.Errorf("parameter %s has invalid role %q", spec.Name, spec.Role)
		}
	}
	switch p.Job.Kind {
	case KindCount:
		if p.Job.Times < 1 {
			return fmt.Errorf("count job needs positive times, got %d", p.Job.Times)
		}
	case KindScan:
		if len(p.Job.Values) == 0 {
			return errors.New("scan job needs a values list")
		}
	case KindGrid:
		if len(p.Job.Axes) == 0 {
			return errors.New("grid job needs axes")
		}
	}
	return nil
}

// GroupName returns the configured group name, falling back to the
// procedure name.
func (p *Procedure) GroupName() string {
	if p.Group.Name != "" {
		return p.Group.Name
	}
	return p.Name
}

// BuildJob materializes the procedure into a runnable job over soft
// parameters. The record is not prepared here; callers bind or prepare it
// against their data group.
func (p *Procedure) BuildJob(clock process.Clock) (sweep.Job, error) {
	var setterParams, getterParams []param.Parameter
	for _, spec := range p.Job.Parameters {
		built, err := buildParameter(spec)
		if err != nil {
			return nil, err
		}
		if spec.Role == "setter" {
			setterParams = append(setterParams, built)
		} else {
			getterParams = append(getterParams, built)
		}
	}
	getters := sweep.GettersOf(getterParams...)
	setters, err := sweep.SettersOf(setterParams...)
	if err != nil {
		return nil, err
	}

	switch p.Job.Kind {
	case KindAtom:
		return sweep.NewAtomJob(sweep.AtomJobConfig{
			Name:          p.Name,
			Setters:       setters,
			Getters:       getters,
			DelayBegin:    p.Job.DelayBegin,
			DelayAfterSet: p.Job.DelayAfterSet,
			DelayEnd:      p.Job.DelayEnd,
			Clock:         clock,
		})
	case KindCount:
		return sweep.NewCounter(sweep.CounterConfig{
			Name:       p.Name,
			Getters:    getters,
			Times:      p.Job.Times,
			DelayBegin: p.Job.DelayBegin,
			DelayGap:   p.Job.DelayGap,
			DelayEnd:   p.Job.DelayEnd,
			Clock:      clock,
		})
	case KindScan:
		values := make([]sweep.Values, len(p.Job.Values))
		for i, entry := range p.Job.Values {
			values[i] = sweep.Values(entry)
		}
		return sweep.NewScanner(sweep.ScannerConfig{
			Name:          p.Name,
			Setters:       setters,
			Getters:       getters,
			Values:        values,
			DelayBegin:    p.Job.DelayBegin,
			DelayAfterSet: p.Job.DelayAfterSet,
			DelayGap:      p.Job.DelayGap,
			DelayEnd:      p.Job.DelayEnd,
			Clock:         clock,
		})
	case KindGrid:
		axes := make([]sweep.Axis, len(p.Job.Axes))
		for i, spec := range p.Job.Axes {
			axes[i] = sweep.Axis{Key: spec.Key, Candidates: spec.Candidates}
		}
		return sweep.NewGridScanner(sweep.GridConfig{
			Name:          p.Name,
			Setters:       setters,
			Axes:          axes,
			Getters:       getters,
			DelayBegin:    p.Job.DelayBegin,
			DelayAfterSet: p.Job.DelayAfterSet,
			DelayGap:      p.Job.DelayGap,
			DelayEnd:      p.Job.DelayEnd,
			Clock:         clock,
		})
	default:
		return nil, fmt.Errorf("unknown job kind: %s", p.Job.Kind)
	}
}

func buildParameter(spec ParameterSpec) (param.Parameter, error) {
	bounds := validate.AnyNumber()
	if spec.Min != nil {
		bounds.Min = *spec.Min
	}
	if spec.Max != nil {
		bounds.Max = *spec.Max
	}
	return param.NewSoftParameter(spec.Name, bounds, spec.Initial)
}
