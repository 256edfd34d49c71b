package attendance

import "errors"

// Attendance domain errors
var (
	// State machine errors
	ErrAlreadyClockedIn  = errors.New("user already has an open attendance session")
	ErrNoOpenSession     = errors.New("user has no open attendance session")
	ErrInvalidTransition = errors.New("attendance entry is not awaiting review")
	ErrInvalidDecision   = errors.New("review decision must be approved or rejected")

	// General errors
	ErrClockEntryNotFound = errors.New("attendance entry not found")
	ErrForbidden          = errors.New("not allowed to access this attendance entry")
)
