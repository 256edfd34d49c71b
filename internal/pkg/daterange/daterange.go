// Package daterange models the inclusive [start_date, end_date] window that
// listings and statistics are computed over.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01-02"

var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrRangeTooLarge = errors.New("date range too large")
)

// DateRange holds two calendar dates (midnight UTC); both ends are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New truncates both ends to their calendar date.
func New(start, end time.Time) DateRange {
	return DateRange{Start: Date(start), End: Date(end)}
}

// Date returns the calendar date of t as midnight UTC, keeping t's wall date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads YYYY-MM-DD bounds. maxDays <= 0 disables the size check.
func Parse(start, end string, maxDays int) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidRange)
	}
	s, err := time.Parse(layout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start_date must be in YYYY-MM-DD format", ErrInvalidRange)
	}
	e, err := time.Parse(layout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end_date must be in YYYY-MM-DD format", ErrInvalidRange)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(maxDays); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate(maxDays int) error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidRange)
	}
	if maxDays > 0 && r.Days() > maxDays {
		return fmt.Errorf("%w: at most %d days allowed", ErrRangeTooLarge, maxDays)
	}
	return nil
}

// Days is the number of calendar dates covered.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Bounds converts the range to a half-open instant interval [from, to) whose
// day boundaries are taken in loc.
func (r DateRange) Bounds(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return from, to
}

func (r DateRange) String() string {
	return r.Start.Format(layout) + ".." + r.End.Format(layout)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layout)
}
