// Package tables selects the single best entry of a lookup table for a
// numeric probe plus optional categorical context.
//
// The same scan serves time, level/lane and distance tables; only the Shape
// (which keys are numeric) differs. Rules, per entry in table order:
//   - an exact key must equal the probe value;
//   - min/max keys are inclusive bounds, so a value on a shared bound belongs
//     to the first bucket listed;
//   - every other key is a context dimension: the caller must supply that
//     dimension with an equal value, otherwise the entry is more specific than
//     the query and is skipped. Entries without the dimension stay eligible.
//
// The first entry passing all checks wins. No match is an error, never a
// default value.
package tables

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/sportgrade/internal/domain/types"
)

// Entry is one row of a table. Key values are numbers (or numeric strings)
// for numeric keys and anything printable for context dimensions.
type Entry struct {
	Key   map[string]any `json:"key"`
	Value types.Grade    `json:"value"`
}

// Definition is a lookup table.
type Definition struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Entries []Entry `json:"entries"`
	// Dimensions declares the context dimensions entries may use. Empty means
	// undeclared; Validate then accepts any.
	Dimensions []string `json:"dimensions,omitempty"`
	// MappingRules renames probe context dimensions onto table dimensions,
	// e.g. {"sex": "gender"}.
	MappingRules map[string]string `json:"mappingRules,omitempty"`
}

// Probe is what the caller looks up: numeric values per axis and context.
type Probe struct {
	Values  map[string]float64
	Context map[string]string
}

// NewProbe returns a probe with a single numeric axis.
func NewProbe(axis string, v float64) Probe {
	return Probe{Values: map[string]float64{axis: v}}
}

// With returns a copy of p with a context dimension set. Empty values are
// treated as "not supplied" and left out.
func (p Probe) With(dim, value string) Probe {
	ctx := make(map[string]string, len(p.Context)+1)
	for k, v := range p.Context {
		ctx[k] = v
	}
	if value != "" {
		ctx[dim] = value
	}
	vals := make(map[string]float64, len(p.Values))
	for k, v := range p.Values {
		vals[k] = v
	}
	return Probe{Values: vals, Context: ctx}
}

// String renders the probe for error messages.
func (p Probe) String() string {
	parts := make([]string, 0, len(p.Values)+len(p.Context))
	for k, v := range p.Values {
		parts = append(parts, k+"="+types.FormatNumber(v))
	}
	for k, v := range p.Context {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Match returns the first entry of def matching p.
func Match(p Probe, def Definition) (Entry, error) {
	shape, err := ShapeFor(def.Type)
	if err != nil {
		return Entry{}, fmt.Errorf("table %q: %w", def.ID, err)
	}
	if len(def.Entries) == 0 {
		return Entry{}, fmt.Errorf("%w: table %q has no entries", ErrMalformedTable, def.ID)
	}
	if !hasPrimary(shape, def.Entries) {
		return Entry{}, fmt.Errorf("%w: table %q has no %s entry", ErrMalformedTable, def.ID, shape.Kind)
	}
	if err := checkProbe(shape, p); err != nil {
		return Entry{}, err
	}
	ctx := def.mapContext(p.Context)

	for i, e := range def.Entries {
		ok, err := matches(shape, e, p.Values, ctx)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: table %q entry %d: %w", ErrMalformedTable, def.ID, i, err)
		}
		if ok {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: table %q for %s", ErrNoMatchingEntry, def.ID, Probe{Values: p.Values, Context: ctx})
}

// Lookup is Match returning only the entry value.
func Lookup(p Probe, def Definition) (types.Grade, error) {
	e, err := Match(p, def)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func matches(shape Shape, e Entry, values map[string]float64, ctx map[string]string) (bool, error) {
	for _, ax := range shape.Axes {
		v := values[ax.Name]
		if n, ok, err := numberAt(e.Key, ax.Exact); err != nil {
			return false, err
		} else if ok && v != n {
			return false, nil
		}
		if n, ok, err := numberAt(e.Key, ax.Min); err != nil {
			return false, err
		} else if ok && v < n {
			return false, nil
		}
		if n, ok, err := numberAt(e.Key, ax.Max); err != nil {
			return false, err
		} else if ok && v > n {
			return false, nil
		}
	}
	for dim, raw := range e.Key {
		// a null dimension constrains nothing, like an absent one
		if raw == nil || shape.IsNumeric(dim) {
			continue
		}
		want, supplied := ctx[dim]
		if !supplied || text(raw) != want {
			return false, nil
		}
	}
	return true, nil
}

func hasPrimary(shape Shape, entries []Entry) bool {
	for _, e := range entries {
		if shape.carriesPrimary(e) {
			return true
		}
	}
	return false
}

func checkProbe(shape Shape, p Probe) error {
	for _, ax := range shape.Axes {
		v, ok := p.Values[ax.Name]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidProbe, ax.Name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidProbe, ax.Name, v)
		}
	}
	return nil
}

func (d Definition) mapContext(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v == "" {
			continue
		}
		if to, ok := d.MappingRules[k]; ok && to != "" {
			k = to
		}
		out[k] = v
	}
	return out
}

func numberAt(key map[string]any, name string) (float64, bool, error) {
	if name == "" {
		return 0, false, nil
	}
	raw, ok := key[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	n, err := number(raw)
	if err != nil {
		return 0, false, fmt.Errorf("key %s: %w", name, err)
	}
	return n, true, nil
}

func number(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", raw, raw)
	}
}

func text(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return types.FormatNumber(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
