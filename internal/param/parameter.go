package param

import (
	"errors"
	"fmt"

	"sweeplab/internal/validate"
)

// Parameter is the instrument-facing holder of a controlled or observed
// quantity. Set validates before any hardware interaction; Get returns the
// last committed or measured value.
type Parameter interface {
	Name() string
	Validator() validate.Validator
	Get() (any, error)
	Set(value any) error
}

// SoftParameter is a software-backed parameter with no hardware behind it.
// Virtual instruments and tests use it as a stand-in channel.
type SoftParameter struct {
	name      string
	validator validate.Validator
	value     any
}

func NewSoftParameter(name string, v validate.Validator, initial any) (*SoftParameter, error) {
	if name == "" {
		return nil, errors.New("parameter name is required")
	}
	if v == nil {
		v = validate.Anything{}
	}
	p := &SoftParameter{name: name, validator: v}
	if err := p.Set(initial); err != nil {
		return nil, fmt.Errorf("initial value of %s: %w", name, err)
	}
	return p, nil
}

func (p *SoftParameter) Name() string                  { return p.name }
func (p *SoftParameter) Validator() validate.Validator { return p.validator }
func (p *SoftParameter) Get() (any, error)             { return p.value, nil }

func (p *SoftParameter) Set(value any) error {
	if err := p.validator.Validate(value, p.name); err != nil {
		return err
	}
	p.value = value
	return nil
}

// FuncParameter bridges a parameter to driver-supplied getter and setter
// functions. A nil getter makes the parameter write-only, a nil setter makes
// it read-only.
type FuncParameter struct {
	name      string
	validator validate.Validator
	getter    func() (any, error)
	setter    func(any) error
}

func NewFuncParameter(name string, v validate.Validator,
	getter func() (any, error), setter func(any) error) (*FuncParameter, error) {
	if name == "" {
		return nil, errors.New("parameter name is required")
	}
	if getter == nil && setter == nil {
		return nil, fmt.Errorf("parameter %s needs a getter or a setter", name)
	}
	if v == nil {
		v = validate.Anything{}
	}
	return &FuncParameter{name: name, validator: v, getter: getter, setter: setter}, nil
}

func (p *FuncParameter) Name() string                  { return p.name }
func (p *FuncParameter) Validator() validate.Validator { return p.validator }

func (p *FuncParameter) Get() (any, error) {
	if p.getter == nil {
		return nil, fmt.Errorf("parameter %s is write-only", p.name)
	}
	return p.getter()
}

func (p *FuncParameter) Set(value any) error {
	if p.setter == nil {
		return fmt.Errorf("parameter %s is read-only", p.name)
	}
	if err := p.validator.Validate(value, p.name); err != nil {
		return err
	}
	return p.setter(value)
}
