// Package duesignal classifies todo due dates into urgency signals
// relative to the current calendar day.
//
// A due date earlier than today is red, one due within the next two days
// (today included) is yellow, anything later is green, and a missing or
// unreadable date is gray. Comparison happens on whole calendar days in
// the location of the reference time, so the time of day never matters.
package duesignal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Signal is the urgency of a due date
type Signal string

const (
	Red    Signal = "red"
	Yellow Signal = "yellow"
	Green  Signal = "green"
	Gray   Signal = "gray"
)

// YellowWindowDays is the number of days ahead of today still flagged yellow
const YellowWindowDays = 2

const dateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

var labels = map[Signal]string{
	Red:    "Overdue",
	Yellow: "Due soon",
	Green:  "On track",
	Gray:   "No due date",
}

// Classify returns the signal for raw relative to now.
func Classify(raw string, now time.Time) Signal {
	due, ok := parseDay(strings.TrimSpace(raw), now.Location())
	if !ok {
		return Gray
	}
	today := midnight(now)

	if due.Before(today) {
		return Red
	}
	if daysBetween(today, due) <= YellowWindowDays {
		return Yellow
	}
	return Green
}

// ClassifyPtr is Classify for nullable columns; nil is gray.
func ClassifyPtr(raw *string, now time.Time) Signal {
	if raw == nil {
		return Gray
	}
	return Classify(*raw, now)
}

// Classifier binds Classify to a clock.
type Classifier struct {
	now func() time.Time
}

// NewClassifier returns a classifier reading the given clock. A nil clock uses time.Now.
func NewClassifier(clock func() time.Time) *Classifier {
	if clock == nil {
		clock = time.Now
	}
	return &Classifier{now: clock}
}

// Classify classifies raw against the classifier's clock
func (c *Classifier) Classify(raw string) Signal {
	return Classify(raw, c.now())
}

// ClassifyPtr classifies a nullable due date against the classifier's clock
func (c *Classifier) ClassifyPtr(raw *string) Signal {
	return ClassifyPtr(raw, c.now())
}

// Valid reports whether s is one of the four signals
func (s Signal) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns a human readable label
func (s Signal) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return labels[Gray]
}

func (s Signal) String() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler
func (s Signal) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid due signal %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Signal) UnmarshalText(text []byte) error {
	v := Signal(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid due signal %q", string(text))
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler
func (s Signal) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Signal) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

// parseDay returns the calendar day of raw as midnight in loc.
// Date-only values are taken as that day in loc; date-times carrying an
// offset are converted into loc first.
func parseDay(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true
	}
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return midnight(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b, both at midnight.
// Calendar arithmetic keeps DST transitions from skewing the count.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
