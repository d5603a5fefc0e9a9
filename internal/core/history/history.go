// Package history holds the diagnosis record model and the date-grouping
// logic used to present past analyses.
package history

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one past diagnosis as reported by the server. The server is
// authoritative; clients hold at most a stale copy invalidated by refetch.
type Record struct {
	ID         int64     `json:"id"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"image_url,omitempty"`
	Timestamp  Timestamp `json:"timestamp"`
}

// Timestamp accepts the two encodings the server emits: a numeric value of
// seconds since epoch, or an absolute date/time string. Both normalize to
// the same instant.
type Timestamp struct {
	time.Time
}

// String timestamp layouts, tried in order. The offset-less layouts cover
// datetimes serialized without timezone info and are interpreted as UTC.
var stringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON decodes either encoding. Numeric values may be fractional
// seconds; sub-second precision is dropped since it carries no meaning for
// calendar grouping.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}

	if len(s) >= 2 && s[0] == '"' {
		raw := s[1 : len(s)-1]
		for _, layout := range stringLayouts {
			parsed, err := time.ParseInLocation(layout, raw, time.UTC)
			if err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp string %q", raw)
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unrecognized timestamp %s: %w", s, err)
	}
	t.Time = time.Unix(int64(secs), 0)
	return nil
}

// MarshalJSON emits RFC 3339, which round-trips through UnmarshalJSON.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339))), nil
}

// DateLabel returns the record's local calendar date formatted as a long
// month/day/year label, e.g. "January 2, 2006".
func (t Timestamp) DateLabel() string {
	return t.Local().Format("January 2, 2006")
}

// ClockLabel returns the record's local time of day, e.g. "15:04".
func (t Timestamp) ClockLabel() string {
	return t.Local().Format("15:04")
}
