package standards

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is an achievement level. Levels are totally ordered
// none < bronze < silver < gold.
type Level string

// Levels.
const (
	None   Level = "none"
	Bronze Level = "bronze"
	Silver Level = "silver"
	Gold   Level = "gold"
)

// Rank returns the position of l in the level order, or -1 if unknown.
func (l Level) Rank() int {
	switch l {
	case None, "":
		return 0
	case Bronze:
		return 1
	case Silver:
		return 2
	case Gold:
		return 3
	default:
		return -1
	}
}

func (l Level) String() string {
	if l == "" {
		return string(None)
	}
	return string(l)
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return None, nil
	}
	if l.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// UnmarshalJSON rejects unknown level names.
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode level: %w", err)
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
