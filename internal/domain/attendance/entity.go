package attendance

import (
	"time"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// ClockEntry is one attendance session from clock-in to clock-out.
// DurationMinutes is nil exactly while Status is in_progress.
type ClockEntry struct {
	ID              string
	UserID          string
	ClockIn         time.Time
	ClockOut        *time.Time
	ExpectedClockIn string // HH:MM in the policy timezone
	IsLate          bool
	LateMinutes     int
	DurationMinutes *int
	IsOvertime      bool
	OvertimeMinutes int
	Status          Status
	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewNote      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e ClockEntry) IsOpen() bool {
	return e.Status == StatusInProgress
}

// Counted reports whether the entry contributes to attendance totals.
func (e ClockEntry) Counted() bool {
	return (e.Status == StatusCompleted || e.Status == StatusApproved) && e.DurationMinutes != nil
}

// LateMinutesAt returns whole minutes between expected and actual clock-in,
// truncated, never negative. Arriving exactly on time is not late.
func LateMinutesAt(clockIn, expected time.Time) int {
	if !clockIn.After(expected) {
		return 0
	}
	return int(clockIn.Sub(expected) / time.Minute)
}

// DurationMinutesBetween returns the floor of (out - in) in minutes.
func DurationMinutesBetween(in, out time.Time) int {
	if out.Before(in) {
		return 0
	}
	return int(out.Sub(in) / time.Minute)
}

// OvertimeMinutesFor returns max(0, duration - standard).
func OvertimeMinutesFor(durationMinutes, standardDailyMinutes int) int {
	if durationMinutes <= standardDailyMinutes {
		return 0
	}
	return durationMinutes - standardDailyMinutes
}

// Close returns a copy of the open entry clocked out at t. A t before the
// clock-in instant is clamped to it.
func (e ClockEntry) Close(t time.Time, standardDailyMinutes int) (ClockEntry, error) {
	if e.Status != StatusInProgress {
		return e, ErrNoOpenSession
	}
	if t.Before(e.ClockIn) {
		t = e.ClockIn
	}

	duration := DurationMinutesBetween(e.ClockIn, t)
	overtime := OvertimeMinutesFor(duration, standardDailyMinutes)

	closed := e
	closed.ClockOut = &t
	closed.DurationMinutes = &duration
	closed.OvertimeMinutes = overtime
	closed.IsOvertime = overtime > 0
	closed.Status = StatusCompleted
	closed.UpdatedAt = t
	return closed, nil
}

// Review returns a copy moved from completed to decision. Derived fields are
// left untouched.
func (e ClockEntry) Review(decision Status, reviewerID string, note *string, at time.Time) (ClockEntry, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return e, ErrInvalidDecision
	}
	if e.Status != StatusCompleted {
		return e, ErrInvalidTransition
	}

	reviewed := e
	reviewed.Status = decision
	reviewed.ReviewedBy = &reviewerID
	reviewed.ReviewedAt = &at
	reviewed.ReviewNote = note
	reviewed.UpdatedAt = at
	return reviewed, nil
}
