package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overrideRepo map[string]*policy.Override

func (r overrideRepo) GetByUserID(_ context.Context, userID string) (*policy.Override, error) {
	if userID == "broken-store" {
		return nil, errors.New("connection reset")
	}
	return r[userID], nil
}

func TestPolicyProvider_ForUser(t *testing.T) {
	defaults, err := policy.New("09:00", 480, "UTC")
	require.NoError(t, err)

	early := "07:30"
	tz := "Asia/Jakarta"
	badTZ := "Nowhere/Land"
	repo := overrideRepo{
		"u-early": {UserID: "u-early", ExpectedClockIn: &early, Timezone: &tz},
		"u-bad":   {UserID: "u-bad", Timezone: &badTZ},
	}
	provider := NewPolicyProvider(repo, defaults)
	ctx := context.Background()

	got, err := provider.ForUser(ctx, "u-none")
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	got, err = provider.ForUser(ctx, "u-early")
	require.NoError(t, err)
	assert.Equal(t, policy.TimeOfDay{Hour: 7, Minute: 30}, got.ExpectedClockIn)
	assert.Equal(t, "Asia/Jakarta", got.Location.String())
	assert.Equal(t, 480, got.StandardDailyMinutes)

	got, err = provider.ForUser(ctx, "u-bad")
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	_, err = provider.ForUser(ctx, "broken-store")
	assert.Error(t, err)
}
