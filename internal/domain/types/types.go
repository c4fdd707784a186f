// Package types contains value types shared by the grading packages.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Grade is a grade label such as "1", "2+", "A" or "15". Authors may write it
// as a JSON number or string; it is always carried as text.
type Grade string

// String returns the label.
func (g Grade) String() string { return string(g) }

// IsZero reports whether no grade is set.
func (g Grade) IsZero() bool { return g == "" }

// UnmarshalJSON accepts both `"2"` and `2`.
func (g *Grade) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode grade: %w", err)
		}
		*g = Grade(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode grade: %w", err)
	}
	*g = Grade(n.String())
	return nil
}

// Gender is the categorical gender dimension used by tables and standards.
type Gender string

// Known genders. Any is only meaningful on a standard, where it matches every
// input gender.
const (
	Male   Gender = "male"
	Female Gender = "female"
	Any    Gender = "any"
)

// ParseGender normalizes common spellings ("m", "w", "f", "male", ...).
// An empty string yields an empty gender, meaning "not supplied".
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "m", "male", "männlich", "maennlich":
		return Male, nil
	case "f", "w", "female", "weiblich":
		return Female, nil
	case "any", "all", "*":
		return Any, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// FormatNumber renders a float without trailing zeros, the way numeric table
// keys and context values are compared as text.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
