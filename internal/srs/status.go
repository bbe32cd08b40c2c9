package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Status represents the learning stage of a card for one user.
type Status int

const (
	StatusNew        Status = iota // Never graded.
	StatusLearning                 // In initial learning steps.
	StatusReview                   // Graduated into the long-term review cycle.
	StatusRelearning               // Forgotten while in review, relearning.
)

var (
	statusNames = [...]string{
		StatusNew:        "new",
		StatusLearning:   "learning",
		StatusReview:     "review",
		StatusRelearning: "relearning",
	}
	statusByName = map[string]Status{
		"new":        StatusNew,
		"learning":   StatusLearning,
		"review":     StatusReview,
		"relearning": StatusRelearning,
	}
)

var (
	_ fmt.Stringer             = Status(0)
	_ encoding.TextMarshaler   = Status(0)
	_ encoding.TextUnmarshaler = (*Status)(nil)
	_ json.Marshaler           = Status(0)
	_ json.Unmarshaler         = (*Status)(nil)
)

// IsValid reports whether s is one of the four defined statuses.
func (s Status) IsValid() bool {
	return s >= StatusNew && s <= StatusRelearning
}

// String returns the lowercase name of the status as stored in the database.
func (s Status) String() string {
	if s.IsValid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus converts a stored status name back into a Status.
func ParseStatus(name string) (Status, error) {
	v, ok := statusByName[name]
	if !ok {
		return 0, fmt.Errorf("srs: invalid status: %q", name)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("srs: invalid status: %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Status serializes as a JSON string.
func (s Status) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("srs: invalid status: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
