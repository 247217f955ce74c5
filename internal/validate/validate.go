// Package validate provides composable value validators used by attributes
// and instrument parameters. A validator either accepts a value or returns a
// descriptive error naming the context in which validation failed.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var ErrInvalidValue = errors.New("invalid value")

type Validator interface {
	Validate(value any, context string) error
}

// Accepted reports whether value passes validator.
func Accepted(value any, v Validator) bool {
	return v.Validate(value, "") == nil
}

// Anything accepts every value.
type Anything struct{}

func (Anything) Validate(any, string) error { return nil }

// Nothing rejects every value with a fixed reason.
type Nothing struct {
	Reason string
}

func (v Nothing) Validate(_ any, context string) error {
	return fmt.Errorf("%w: %s (%s)", ErrInvalidValue, v.Reason, context)
}

// Bool accepts bool values only.
type Bool struct{}

func (Bool) Validate(value any, context string) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("%w: bool required, got %T (%s)",
			ErrInvalidValue, value, context)
	}
	return nil
}

// String accepts strings whose length lies within [Min, Max]. A negative Max
// means no upper bound.
type String struct {
	Min int
	Max int
}

func AnyString() String { return String{Min: 0, Max: -1} }

func (v String) Validate(value any, context string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: string required, got %T (%s)",
			ErrInvalidValue, value, context)
	}
	if v.Min > 0 && len(s) < v.Min {
		return fmt.Errorf("%w: length %d below minimum %d (%s)",
			ErrInvalidValue, len(s), v.Min, context)
	}
	if v.Max >= 0 && len(s) > v.Max {
		return fmt.Errorf("%w: length %d above maximum %d (%s)",
			ErrInvalidValue, len(s), v.Max, context)
	}
	return nil
}

// Pattern accepts strings fully matching a regular expression.
type Pattern struct {
	expr *regexp.Regexp
}

func NewPattern(expr string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, errors.New("pattern is required")
	}
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern: %w", err)
	}
	return Pattern{expr: re}, nil
}

func (v Pattern) Validate(value any, context string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: string required, got %T (%s)",
			ErrInvalidValue, value, context)
	}
	if v.expr == nil || !v.expr.MatchString(s) {
		return fmt.Errorf("%w: %q does not match pattern (%s)",
			ErrInvalidValue, s, context)
	}
	return nil
}

// Int accepts integral numbers within [Min, Max].
type Int struct {
	Min int64
	Max int64
}

func AnyInt() Int { return Int{Min: -1 << 62, Max: 1<<62 - 1} }

func MinInt(min int64) Int {
	v := AnyInt()
	v.Min = min
	return v
}

func (v Int) Validate(value any, context string) error {
	n, ok := asInt(value)
	if !ok {
		return fmt.Errorf("%w: integer required, got %T (%s)",
			ErrInvalidValue, value, context)
	}
	if n < v.Min || n > v.Max {
		return fmt.Errorf("%w: %d out of range [%d, %d] (%s)",
			ErrInvalidValue, n, v.Min, v.Max, context)
	}
	return nil
}

// Number accepts any numeric value within [Min, Max].
type Number struct {
	Min float64
	Max float64
}

func AnyNumber() Number {
	return Number{Min: math.Inf(-1), Max: math.Inf(1)}
}

func MinNumber(min float64) Number {
	v := AnyNumber()
	v.Min = min
	return v
}

func (v Number) Validate(value any, context string) error {
	f, ok := AsFloat(value)
	if !ok {
		return fmt.Errorf("%w: number required, got %T (%s)",
			ErrInvalidValue, value, context)
	}
	if f < v.Min || f > v.Max {
		return fmt.Errorf("%w: %v out of range [%v, %v] (%s)",
			ErrInvalidValue, f, v.Min, v.Max, context)
	}
	return nil
}

// Enum accepts only listed candidate values.
type Enum struct {
	candidates []any
}

func NewEnum(candidates ...any) (Enum, error) {
	if len(candidates) == 0 {
		return Enum{}, errors.New("enum requires at least one candidate")
	}
	return Enum{candidates: candidates}, nil
}

func (v Enum) Validate(value any, context string) error {
	for _, c := range v.candidates {
		if c == value {
			return nil
		}
	}
	return fmt.Errorf("%w: %v is not a candidate (%s)",
		ErrInvalidValue, value, context)
}

// All accepts values satisfying every child validator.
type All struct {
	children []Validator
}

func NewAll(children ...Validator) (All, error) {
	if len(children) == 0 {
		return All{}, errors.New("no child validators")
	}
	return All{children: children}, nil
}

func (v All) Validate(value any, context string) error {
	for _, child := range v.children {
		if err := child.Validate(value, context); err != nil {
			return err
		}
	}
	return nil
}

// Any accepts values satisfying at least one child validator.
type Any struct {
	children []Validator
}

func NewAny(children ...Validator) (Any, error) {
	if len(children) == 0 {
		return Any{}, errors.New("no child validators")
	}
	return Any{children: children}, nil
}

func (v Any) Validate(value any, context string) error {
	for _, child := range v.children {
		if child.Validate(value, context) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v accepted by no validator (%s)",
		ErrInvalidValue, value, context)
}

func asInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

// AsFloat widens any numeric value to float64.
func AsFloat(value any) (float64, bool) {
	if n, ok := asInt(value); ok {
		return float64(n), true
	}
	switch f := value.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}
