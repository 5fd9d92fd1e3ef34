// Package timerange parses the from/to bounds accepted by the CLI and the
// sync endpoint.
//
// A bound is RFC3339, a date (YYYY-MM-DD, read as UTC) or a natural language
// expression such as "yesterday" or "3 days ago" evaluated against now.
package timerange

import (
	"errors"
	"fmt"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// DefaultWindow is the span synced when no start is given.
const DefaultWindow = 24 * time.Hour

const dateLayout = "2006-01-02"

// ErrInverted is returned when the end bound precedes the start bound.
var ErrInverted = errors.New("end is before start")

// ParseStart parses a start bound. A date means 00:00 UTC of that day.
func ParseStart(val string, now time.Time) (time.Time, error) {
	return parse(val, now, 0)
}

// ParseEnd parses an end bound. A date is inclusive: it means 00:00 UTC of
// the following day.
func ParseEnd(val string, now time.Time) (time.Time, error) {
	return parse(val, now, 1)
}

func parse(val string, now time.Time, dayOffset int) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	if d, err := time.Parse(dateLayout, val); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day()+dayOffset, 0, 0, 0, 0, time.UTC), nil
	}
	d, err := dateparser.Parse(&dateparser.Configuration{CurrentTime: now}, val)
	if err != nil || d.Time.IsZero() {
		return time.Time{}, fmt.Errorf("invalid time %q, expected RFC3339, YYYY-MM-DD or an expression like \"yesterday\"", val)
	}
	return d.Time, nil
}

// Bounds parses optional from/to values. An empty value yields a nil bound.
func Bounds(from, to string, now time.Time) (start, end *time.Time, err error) {
	if from != "" {
		t, err := ParseStart(from, now)
		if err != nil {
			return nil, nil, fmt.Errorf("from: %w", err)
		}
		start = &t
	}
	if to != "" {
		t, err := ParseEnd(to, now)
		if err != nil {
			return nil, nil, fmt.Errorf("to: %w", err)
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("%w: %s < %s", ErrInverted, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return start, end, nil
}

// Window is Bounds with defaults filled in: the end defaults to now and the
// start to DefaultWindow before the end.
func Window(from, to string, now time.Time) (start, end time.Time, err error) {
	s, e, err := Bounds(from, to, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = now
	if e != nil {
		end = *e
	}
	start = end.Add(-DefaultWindow)
	if s != nil {
		start = *s
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s < %s", ErrInverted, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return start, end, nil
}
