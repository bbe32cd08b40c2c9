package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Grade represents the user's assessment of recall quality on a 4-point scale.
type Grade int

const (
	Again Grade = iota + 1 // Failed to recall.
	Hard                   // Recalled with significant difficulty.
	Good                   // Recalled with some effort.
	Easy                   // Recalled effortlessly.
)

var (
	gradeNames = [...]string{
		Again: "again",
		Hard:  "hard",
		Good:  "good",
		Easy:  "easy",
	}
	gradeByName = map[string]Grade{
		"again": Again,
		"hard":  Hard,
		"good":  Good,
		"easy":  Easy,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
	_ json.Marshaler           = Grade(0)
	_ json.Unmarshaler         = (*Grade)(nil)
)

// IsValid reports whether g is a valid grade (Again through Easy).
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

// String returns the lowercase name of the grade.
func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ParseGrade converts a grade name ("again", "hard", "good", "easy") into a
// Grade. Malformed values are a caller contract violation and must be
// rejected before the scheduler is invoked.
func ParseGrade(name string) (Grade, error) {
	v, ok := gradeByName[name]
	if !ok {
		return 0, fmt.Errorf("srs: invalid grade: %q", name)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("srs: invalid grade: %d", int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// MarshalJSON implements json.Marshaler. Grade serializes as a JSON string.
func (g Grade) MarshalJSON() ([]byte, error) {
	text, err := g.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (g *Grade) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("srs: invalid grade: %s", data)
	}
	return g.UnmarshalText([]byte(s))
}
