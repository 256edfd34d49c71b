package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const clockEntryColumns = `
	id, user_id, clock_in, clock_out, expected_clock_in,
	is_late, late_minutes, duration_minutes, is_overtime, overtime_minutes,
	status, reviewed_by, reviewed_at, review_note,
	created_at, updated_at`

type clockEntryRepository struct {
	db *database.DB
}

func NewClockEntryRepository(db *database.DB) attendance.ClockEntryRepository {
	return &clockEntryRepository{db: db}
}

func scanClockEntry(row pgx.Row) (attendance.ClockEntry, error) {
	var e attendance.ClockEntry
	var status string
	err := row.Scan(
		&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut, &e.ExpectedClockIn,
		&e.IsLate, &e.LateMinutes, &e.DurationMinutes, &e.IsOvertime, &e.OvertimeMinutes,
		&status, &e.ReviewedBy, &e.ReviewedAt, &e.ReviewNote,
		&e.CreatedAt, &e.UpdatedAt,
	)
	e.Status = attendance.Status(status)
	return e, err
}

func collectClockEntries(rows pgx.Rows) ([]attendance.ClockEntry, error) {
	defer rows.Close()

	entries := make([]attendance.ClockEntry, 0)
	for rows.Next() {
		e, err := scanClockEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) Create(ctx context.Context, entry attendance.ClockEntry) (attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_entries (
			id, user_id, clock_in, expected_clock_in, is_late, late_minutes,
			is_overtime, overtime_minutes, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := q.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ClockIn,
		entry.ExpectedClockIn,
		entry.IsLate,
		entry.LateMinutes,
		entry.IsOvertime,
		entry.OvertimeMinutes,
		string(entry.Status),
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return attendance.ClockEntry{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.ClockEntry{}, database.StorageError("create clock entry", err)
	}

	return entry, nil
}

// FindOpenForUser implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) FindOpenForUser(ctx context.Context, userID string) (*attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE user_id = $1 AND status = 'in_progress'
		LIMIT 1
	`

	e, err := scanClockEntry(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, database.StorageError("find open clock entry", err)
	}

	return &e, nil
}

// GetByID implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) GetByID(ctx context.Context, id string) (attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE id = $1
	`

	e, err := scanClockEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ClockEntry{}, fmt.Errorf("clock entry with id %s: %w", id, attendance.ErrClockEntryNotFound)
		}
		return attendance.ClockEntry{}, database.StorageError("get clock entry", err)
	}

	return e, nil
}

// Update implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) Update(ctx context.Context, entry attendance.ClockEntry, from attendance.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_entries SET
			clock_out = $1,
			duration_minutes = $2,
			is_overtime = $3,
			overtime_minutes = $4,
			status = $5,
			reviewed_by = $6,
			reviewed_at = $7,
			review_note = $8,
			updated_at = $9
		WHERE id = $10 AND status = $11
	`

	tag, err := q.Exec(ctx, query,
		entry.ClockOut,
		entry.DurationMinutes,
		entry.IsOvertime,
		entry.OvertimeMinutes,
		string(entry.Status),
		entry.ReviewedBy,
		entry.ReviewedAt,
		entry.ReviewNote,
		entry.UpdatedAt,
		entry.ID,
		string(from),
	)
	if err != nil {
		return database.StorageError("update clock entry", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clock entry %s is no longer %s: %w", entry.ID, from, attendance.ErrInvalidTransition)
	}

	return nil
}

// ListForUser implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3
		ORDER BY clock_in DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, database.StorageError("list clock entries", err)
	}

	entries, err := collectClockEntries(rows)
	if err != nil {
		return nil, database.StorageError("scan clock entries", err)
	}
	return entries, nil
}

// ListOpenStartedBefore implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) ListOpenStartedBefore(ctx context.Context, t time.Time) ([]attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE status = 'in_progress' AND clock_in < $1
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, t)
	if err != nil {
		return nil, database.StorageError("list stale clock entries", err)
	}

	entries, err := collectClockEntries(rows)
	if err != nil {
		return nil, database.StorageError("scan clock entries", err)
	}
	return entries, nil
}
