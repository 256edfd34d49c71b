package policy

import "context"

// OverrideRepository stores per-user policy overrides.
type OverrideRepository interface {
	// GetByUserID returns (nil, nil) when the user has no override
	GetByUserID(ctx context.Context, userID string) (*Override, error)
}
