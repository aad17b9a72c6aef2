// Package session manages logged training sessions: validation, persistence
// and the workload metrics derived from them.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/myrjola/trainload/internal/errors"
)

// ErrNotFound is returned when a session with the requested id does not exist.
var ErrNotFound = errors.NewSentinel("session not found")

// ErrInvalidCursor is returned when a pagination cursor does not refer to an
// existing session.
var ErrInvalidCursor = errors.NewSentinel("invalid cursor")

// Type is the kind of training performed in a session.
type Type string

const (
	TypeStrength Type = "Strength"
	TypeHIIT     Type = "HIIT"
	TypeCardio   Type = "Cardio"
)

// Types lists the valid session types in display order.
//
//nolint:gochecknoglobals // fixed enumeration
var Types = []Type{TypeStrength, TypeHIIT, TypeCardio}

// ValidType reports whether s names a known session type.
func ValidType(s string) bool {
	for _, t := range Types {
		if s == string(t) {
			return true
		}
	}
	return false
}

// typeList renders the valid types for validation messages, e.g.
// "Strength, HIIT, Cardio".
func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Date is a calendar day without a time component. It marshals to and from
// the "2006-01-02" JSON form.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = parsed
	return nil
}

// Session is a logged training session.
type Session struct {
	ID        int64     `json:"id"`
	Date      Date      `json:"date"`
	Type      Type      `json:"type"`
	Duration  int       `json:"duration"` // minutes
	RPE       int       `json:"rpe"`      // rate of perceived exertion, 1-10
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Load is the training load of the session in arbitrary units.
func (s Session) Load() float64 {
	return float64(s.Duration * s.RPE)
}
