package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
)

// AttendanceService runs the clock-in/clock-out state machine
type AttendanceService interface {
	// GetStatus reports the caller's open session and what they may do next
	GetStatus(ctx context.Context, userID string) (StatusResponse, error)

	// ClockIn opens a session; fails with ErrAlreadyClockedIn if one is open
	ClockIn(ctx context.Context, req ClockInRequest) (ClockEntryResponse, error)

	// ClockOut closes the open session; fails with ErrNoOpenSession if none
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockEntryResponse, error)

	// Review moves a completed entry to approved or rejected
	Review(ctx context.Context, req ReviewRequest) (ClockEntryResponse, error)

	// GetEntry retrieves a single entry the caller is allowed to read
	GetEntry(ctx context.Context, caller user.Identity, id string) (ClockEntryResponse, error)

	// ListEntries retrieves a user's entries over a date range
	ListEntries(ctx context.Context, caller user.Identity, filter ListFilter) (ListClockEntriesResponse, error)

	// FlagStaleSessions emits an audit event for every session open longer
	// than maxOpen and returns how many were flagged
	FlagStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error)
}
