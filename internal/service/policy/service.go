package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
)

type PolicyProviderImpl struct {
	policy.OverrideRepository
	defaults policy.Policy
}

func NewPolicyProvider(repo policy.OverrideRepository, defaults policy.Policy) policy.Provider {
	return &PolicyProviderImpl{
		OverrideRepository: repo,
		defaults:           defaults,
	}
}

// ForUser implements policy.Provider.
func (p *PolicyProviderImpl) ForUser(ctx context.Context, userID string) (policy.Policy, error) {
	override, err := p.OverrideRepository.GetByUserID(ctx, userID)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to get policy override: %w", err)
	}
	if override == nil {
		return p.defaults, nil
	}

	resolved, err := p.defaults.WithOverride(*override)
	if err != nil {
		// A broken override row must not block clocking in
		slog.Warn("ignoring invalid policy override", "user_id", userID, "error", err)
		return p.defaults, nil
	}
	return resolved, nil
}
