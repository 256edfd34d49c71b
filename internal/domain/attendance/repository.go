package attendance

import (
	"context"
	"time"
)

// ClockEntryRepository persists clock entries. It holds no business rules.
type ClockEntryRepository interface {
	// Create inserts an entry. Implementations return ErrAlreadyClockedIn when
	// the store already holds an in_progress entry for the same user.
	Create(ctx context.Context, entry ClockEntry) (ClockEntry, error)

	// FindOpenForUser returns (nil, nil) when the user has no open session
	FindOpenForUser(ctx context.Context, userID string) (*ClockEntry, error)

	GetByID(ctx context.Context, id string) (ClockEntry, error)

	// Update writes entry only if the stored row still has status from.
	// A lost race is reported as ErrInvalidTransition.
	Update(ctx context.Context, entry ClockEntry, from Status) error

	// ListForUser returns entries with clock_in in [from, to), newest first
	ListForUser(ctx context.Context, userID string, from, to time.Time) ([]ClockEntry, error)

	// ListOpenStartedBefore returns in_progress entries clocked in before t
	ListOpenStartedBefore(ctx context.Context, t time.Time) ([]ClockEntry, error)
}
