// Package sweep implements timed measurement jobs and the adaptive sweep
// strategies that drive them: a Counter repeating a readout, a Scanner
// walking an explicit value list, and a GridScanner enumerating a Cartesian
// grid with a mixed-radix odometer.
package sweep

import (
	"fmt"
	"sort"

	"sweeplab/internal/param"
)

// Values maps setter keys to the next values a strategy wants applied. An
// empty mapping signals sweep exhaustion.
type Values map[string]any

// Setter binds a column key to an instrument parameter together with the
// initial value placed on the job's mirrored attribute.
type Setter struct {
	Key     string
	Param   param.Parameter
	Initial any
}

// Getter binds a column key to a read-only instrument parameter.
type Getter struct {
	Key   string
	Param param.Parameter
}

// The helpers below normalize heterogeneous parameter collections into
// canonical ordered bindings once, at the boundary; the core only ever sees
// the canonical form. Entries with empty keys or nil parameters are dropped.

// GettersOf binds parameters under their own names, in argument order.
func GettersOf(params ...param.Parameter) []Getter {
	out := make([]Getter, 0, len(params))
	for _, p := range params {
		if p == nil || p.Name() == "" {
			continue
		}
		out = append(out, Getter{Key: p.Name(), Param: p})
	}
	return out
}

// GettersFromMap binds parameters under explicit keys, in sorted key order
// so the resulting column order is deterministic.
func GettersFromMap(params map[string]param.Parameter) []Getter {
	keys := sortedKeys(params)
	out := make([]Getter, 0, len(keys))
	for _, key := range keys {
		if params[key] == nil {
			continue
		}
		out = append(out, Getter{Key: key, Param: params[key]})
	}
	return out
}

// SettersOf binds parameters under their own names, seeding each initial
// value from the parameter's current reading.
func SettersOf(params ...param.Parameter) ([]Setter, error) {
	return SettersWithValues(nil, params...)
}

// SettersWithValues binds parameters under their own names, taking the
// initial value from values when present and from the parameter's current
// reading otherwise.
func SettersWithValues(values Values, params ...param.Parameter) ([]Setter, error) {
	out := make([]Setter, 0, len(params))
	for _, p := range params {
		if p == nil || p.Name() == "" {
			continue
		}
		initial, ok := values[p.Name()]
		if !ok {
			current, err := p.Get()
			if err != nil {
				return nil, fmt.Errorf("read initial value of %s: %w", p.Name(), err)
			}
			initial = current
		}
		out = append(out, Setter{Key: p.Name(), Param: p, Initial: initial})
	}
	return out, nil
}

// SettersFromMap binds parameters under explicit keys in sorted key order,
// seeding initial values from the parameters' current readings.
func SettersFromMap(params map[string]param.Parameter) ([]Setter, error) {
	keys := sortedKeys(params)
	out := make([]Setter, 0, len(keys))
	for _, key := range keys {
		p := params[key]
		if p == nil {
			continue
		}
		initial, err := p.Get()
		if err != nil {
			return nil, fmt.Errorf("read initial value of %s: %w", key, err)
		}
		out = append(out, Setter{Key: key, Param: p, Initial: initial})
	}
	return out, nil
}

func sortedKeys(params map[string]param.Parameter) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
