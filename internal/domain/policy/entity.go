package policy

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone names must resolve on images without a system tz database
)

// Policy is the lateness/overtime rule applied to a user's attendance.
type Policy struct {
	ExpectedClockIn      TimeOfDay
	StandardDailyMinutes int
	Location             *time.Location
}

// TimeOfDay is a wall clock time without date, e.g. 09:00.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay reads an "HH:MM" value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On combines the time of day with the calendar date of t in loc.
func (d TimeOfDay) On(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, loc)
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// Override is a per-user policy row; nil fields inherit the org default.
type Override struct {
	UserID               string
	ExpectedClockIn      *string
	StandardDailyMinutes *int
	Timezone             *string
	UpdatedAt            time.Time
}

// New builds a policy from raw configuration values.
func New(expectedClockIn string, standardDailyMinutes int, timezone string) (Policy, error) {
	expected, err := ParseTimeOfDay(expectedClockIn)
	if err != nil {
		return Policy{}, err
	}
	if standardDailyMinutes <= 0 || standardDailyMinutes > 24*60 {
		return Policy{}, ErrInvalidDailyMinutes
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, timezone)
	}
	return Policy{ExpectedClockIn: expected, StandardDailyMinutes: standardDailyMinutes, Location: loc}, nil
}

// WithOverride layers the non-nil override fields over p.
func (p Policy) WithOverride(o Override) (Policy, error) {
	out := p
	if o.ExpectedClockIn != nil {
		expected, err := ParseTimeOfDay(*o.ExpectedClockIn)
		if err != nil {
			return p, err
		}
		out.ExpectedClockIn = expected
	}
	if o.StandardDailyMinutes != nil {
		if *o.StandardDailyMinutes <= 0 || *o.StandardDailyMinutes > 24*60 {
			return p, ErrInvalidDailyMinutes
		}
		out.StandardDailyMinutes = *o.StandardDailyMinutes
	}
	if o.Timezone != nil {
		loc, err := time.LoadLocation(*o.Timezone)
		if err != nil {
			return p, fmt.Errorf("%w: %q", ErrUnknownTimezone, *o.Timezone)
		}
		out.Location = loc
	}
	return out, nil
}
