package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// accepted input layouts, tried in order; fractional seconds are accepted by
// time.Parse after the seconds field even when the layout omits them
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp ISO-8601 date-time that keeps its source text so exported
// documents reproduce it byte for byte.
type Timestamp struct {
	time.Time
	raw string
}

// ParseTimestamp parses an ISO-8601 extended timestamp
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, raw: s}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp %q", s)
}

// NewTimestamp wraps t; it is exported in RFC 3339 with milliseconds
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	return t.Time.Format("2006-01-02T15:04:05.000Z07:00")
}
