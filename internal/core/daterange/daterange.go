// Package daterange turns caller-supplied calendar dates into inclusive
// [start of day, end of day] timestamp pairs in an explicitly injected zone.
package daterange

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalid is returned when a date is missing, malformed, or the range is inverted.
// Callers map it to a 400 response.
var ErrInvalid = errors.New("invalid date range")

// Accepted input layouts.
var layouts = []string{"2006-01-02", "2006/01/02"}

// resolution is the Postgres timestamp resolution; a day ends one tick before the next midnight.
const resolution = time.Microsecond

// Range is an inclusive pair of zoned timestamps.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Normalizer converts date strings using one configured location.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// New creates a Normalizer for loc. A nil loc means UTC.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, now: time.Now}
}

// WithClock returns a copy of n that reads "now" from clock.
func (n *Normalizer) WithClock(clock func() time.Time) *Normalizer {
	return &Normalizer{loc: n.loc, now: clock}
}

// Location returns the zone every range is computed in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Range builds [start of start, end of end]. An empty end reuses start.
func (n *Normalizer) Range(start, end string) (Range, error) {
	startDay, err := n.parse(start)
	if err != nil {
		return Range{}, err
	}

	endDay := startDay
	if strings.TrimSpace(end) != "" {
		endDay, err = n.parse(end)
		if err != nil {
			return Range{}, err
		}
	}

	if endDay.Before(startDay) {
		return Range{}, ErrInvalid
	}

	return Range{Start: startDay, End: n.endOfDay(endDay)}, nil
}

// endOfDay follows the calendar, so 23 and 25 hour days end at the right instant.
func (n *Normalizer) endOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, n.loc).Add(-resolution)
}

// Day builds the range of a single calendar day. An empty value means today.
func (n *Normalizer) Day(value string) (Range, error) {
	if strings.TrimSpace(value) == "" {
		value = n.Today()
	}
	return n.Range(value, value)
}

// Today returns the current date in the configured zone as YYYY-MM-DD.
func (n *Normalizer) Today() string {
	return n.now().In(n.loc).Format(layouts[0])
}

func (n *Normalizer) parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalid
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, n.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalid
}
