package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.OverrideRepository {
	return &policyRepository{db: db}
}

// GetByUserID implements policy.OverrideRepository.
func (r *policyRepository) GetByUserID(ctx context.Context, userID string) (*policy.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, expected_clock_in, standard_daily_minutes, timezone, updated_at
		FROM attendance_policies
		WHERE user_id = $1
	`

	var o policy.Override
	err := q.QueryRow(ctx, query, userID).Scan(
		&o.UserID, &o.ExpectedClockIn, &o.StandardDailyMinutes, &o.Timezone, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, database.StorageError("get policy override", err)
	}

	return &o, nil
}
