package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It travels on the wire
// as a "YYYY-MM-DD" string, matching the datastore's text columns.
type Date struct {
	time.Time
}

// EndOfDay is the synthetic display time assigned to dated items that carry
// no time of their own, so they sort after every timed entry on the same day.
const EndOfDay TimeOfDay = "23:59"

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time of day")
)

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether the date falls in the given year and month.
func (d Date) SameMonth(year int, month time.Month) bool {
	y, m, _ := d.Date()
	return y == year && m == month
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time in "HH:MM" form.
type TimeOfDay string

// ParseTimeOfDay validates and normalizes an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	td := TimeOfDay(strings.TrimSpace(s))
	if err := td.Validate(); err != nil {
		return "", err
	}
	return td, nil
}

func (t TimeOfDay) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() (int, error) {
	parts := strings.SplitN(string(t), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	return h*60 + m, nil
}

// MinutesOrDefault returns minutes since midnight, or def when malformed.
// Derived views use this so a bad stored value degrades instead of failing.
func (t TimeOfDay) MinutesOrDefault(def int) int {
	m, err := t.Minutes()
	if err != nil {
		return def
	}
	return m
}

func (t TimeOfDay) String() string {
	return string(t)
}
