package policy

import "context"

// Provider resolves the policy in force for a user.
type Provider interface {
	ForUser(ctx context.Context, userID string) (Policy, error)
}
