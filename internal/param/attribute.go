// Package param holds the typed-attribute framework and the instrument
// parameter surface consumed by jobs and sweeps.
package param

import (
	"errors"
	"fmt"

	"sweeplab/internal/validate"
)

var (
	ErrAttributeExists   = errors.New("attribute already declared")
	ErrAttributeNotFound = errors.New("attribute not found")
)

// Attribute is a named, validated holder of a current value. The settable
// flag marks the settable-limited variant: only those attributes may be
// reassigned by a sweep driver at run time.
type Attribute struct {
	name      string
	validator validate.Validator
	value     any
	settable  bool
}

func (a *Attribute) Name() string { return a.name }

func (a *Attribute) Value() any { return a.value }

// Settable reports whether a sweep driver may reassign this attribute.
func (a *Attribute) Settable() bool { return a.settable }

// Set validates value and commits it. Nothing is committed on failure.
func (a *Attribute) Set(value any) error {
	if a.validator != nil {
		if err := a.validator.Validate(value, a.name); err != nil {
			return err
		}
	}
	a.value = value
	return nil
}

// Float returns the attribute value widened to float64, or 0 when the value
// is not numeric.
func (a *Attribute) Float() float64 {
	f, _ := validate.AsFloat(a.value)
	return f
}

// Bool returns the attribute value as a bool, or false for non-bool values.
func (a *Attribute) Bool() bool {
	b, _ := a.value.(bool)
	return b
}

// Attributes is an ordered collection of named attributes owned by one
// process. Declaration order is preserved; names are unique and non-empty.
type Attributes struct {
	names []string
	byKey map[string]*Attribute
}

func NewAttributes() *Attributes {
	return &Attributes{byKey: make(map[string]*Attribute)}
}

// Add declares a plain attribute. The initial value must pass the validator.
func (s *Attributes) Add(name string, v validate.Validator, initial any) error {
	return s.add(name, v, initial, false)
}

// AddSettable declares a settable-limited attribute, the variant a sweep
// driver may target.
func (s *Attributes) AddSettable(name string, v validate.Validator, initial any) error {
	return s.add(name, v, initial, true)
}

func (s *Attributes) add(name string, v validate.Validator, initial any, settable bool) error {
	if name == "" {
		return errors.New("attribute name is required")
	}
	if _, exists := s.byKey[name]; exists {
		return fmt.Errorf("%w: %s", ErrAttributeExists, name)
	}
	attr := &Attribute{name: name, validator: v, settable: settable}
	if err := attr.Set(initial); err != nil {
		return fmt.Errorf("initial value of %s: %w", name, err)
	}
	s.names = append(s.names, name)
	s.byKey[name] = attr
	return nil
}

// Get returns the attribute with the given name, or nil when absent.
func (s *Attributes) Get(name string) *Attribute {
	return s.byKey[name]
}

func (s *Attributes) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
