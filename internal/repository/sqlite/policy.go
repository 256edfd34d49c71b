package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
)

type policyRepository struct {
	s *Store
}

func NewPolicyRepository(s *Store) policy.OverrideRepository {
	return &policyRepository{s: s}
}

// GetByUserID implements policy.OverrideRepository.
func (r *policyRepository) GetByUserID(ctx context.Context, userID string) (*policy.Override, error) {
	var (
		o         policy.Override
		expected  sql.NullString
		tz        sql.NullString
		minutes   sql.NullInt64
		updatedAt string
	)
	err := r.s.db.QueryRowContext(ctx,
		`SELECT user_id, expected_clock_in, standard_daily_minutes, timezone, updated_at
		 FROM attendance_policies WHERE user_id = ?`, userID,
	).Scan(&o.UserID, &expected, &minutes, &tz, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.StorageError("get policy override", err)
	}

	o.ExpectedClockIn = nullString(expected)
	o.Timezone = nullString(tz)
	if minutes.Valid {
		m := int(minutes.Int64)
		o.StandardDailyMinutes = &m
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, database.StorageError("get policy override", err)
	}
	return &o, nil
}

// PutPolicyOverride inserts or replaces a user's override.
func (s *Store) PutPolicyOverride(ctx context.Context, o policy.Override) error {
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance_policies (user_id, expected_clock_in, standard_daily_minutes, timezone, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			expected_clock_in = excluded.expected_clock_in,
			standard_daily_minutes = excluded.standard_daily_minutes,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		o.UserID, o.ExpectedClockIn, o.StandardDailyMinutes, o.Timezone, formatTime(o.UpdatedAt),
	)
	if err != nil {
		return database.StorageError("put policy override", err)
	}
	return nil
}
