package tables

import "fmt"

// Table kinds. Definition.Type selects one of these shapes.
const (
	KindTime      = "time"
	KindLevelLane = "level_lane"
	KindDistance  = "distance"
)

// Axis ties one numeric probe value to the entry keys that constrain it.
// Empty key names are not checked.
type Axis struct {
	// Name of the probe value, e.g. "time".
	Name string
	// Exact is the entry key the probe must equal.
	Exact string
	// Min and Max are inclusive bound keys.
	Min string
	Max string
}

func (a Axis) keys() []string {
	var out []string
	for _, k := range []string{a.Exact, a.Min, a.Max} {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Shape says which entry keys are numeric for a table kind. Every other key
// of an entry is a context dimension.
type Shape struct {
	Kind string
	Axes []Axis
}

// Built-in shapes.
var (
	ShapeTime = Shape{Kind: KindTime, Axes: []Axis{
		{Name: "time", Exact: "time", Min: "minTime", Max: "maxTime"},
	}}
	ShapeLevelLane = Shape{Kind: KindLevelLane, Axes: []Axis{
		{Name: "level", Exact: "level"},
		{Name: "lane", Exact: "lane"},
	}}
	ShapeDistance = Shape{Kind: KindDistance, Axes: []Axis{
		{Name: "distance", Exact: "distance", Min: "minDistance", Max: "maxDistance"},
	}}
)

// ShapeFor returns the shape registered for a table kind.
func ShapeFor(kind string) (Shape, error) {
	switch kind {
	case KindTime:
		return ShapeTime, nil
	case KindLevelLane:
		return ShapeLevelLane, nil
	case KindDistance:
		return ShapeDistance, nil
	default:
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
}

// IsNumeric reports whether key is one of the shape's numeric keys.
func (s Shape) IsNumeric(key string) bool {
	for _, a := range s.Axes {
		for _, k := range a.keys() {
			if k == key {
				return true
			}
		}
	}
	return false
}

// carriesPrimary reports whether an entry has at least one numeric key.
func (s Shape) carriesPrimary(e Entry) bool {
	for k := range e.Key {
		if s.IsNumeric(k) {
			return true
		}
	}
	return false
}
