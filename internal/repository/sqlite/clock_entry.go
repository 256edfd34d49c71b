package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
)

const clockEntryColumns = `id, user_id, clock_in, clock_out, expected_clock_in,
	is_late, late_minutes, duration_minutes, is_overtime, overtime_minutes,
	status, reviewed_by, reviewed_at, review_note, created_at, updated_at`

type clockEntryRepository struct {
	s *Store
}

func NewClockEntryRepository(s *Store) attendance.ClockEntryRepository {
	return &clockEntryRepository{s: s}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClockEntry(row rowScanner) (attendance.ClockEntry, error) {
	var (
		e                             attendance.ClockEntry
		clockIn, createdAt, updatedAt string
		status                        string
		clockOut, reviewedAt          sql.NullString
		reviewedBy, reviewNote        sql.NullString
		duration                      sql.NullInt64
	)
	err := row.Scan(
		&e.ID, &e.UserID, &clockIn, &clockOut, &e.ExpectedClockIn,
		&e.IsLate, &e.LateMinutes, &duration, &e.IsOvertime, &e.OvertimeMinutes,
		&status, &reviewedBy, &reviewedAt, &reviewNote, &createdAt, &updatedAt,
	)
	if err != nil {
		return attendance.ClockEntry{}, err
	}

	e.Status = attendance.Status(status)
	e.ReviewedBy = nullString(reviewedBy)
	e.ReviewNote = nullString(reviewNote)
	if duration.Valid {
		d := int(duration.Int64)
		e.DurationMinutes = &d
	}
	if e.ClockIn, err = parseTime(clockIn); err != nil {
		return attendance.ClockEntry{}, err
	}
	if e.ClockOut, err = parseNullTime(clockOut); err != nil {
		return attendance.ClockEntry{}, err
	}
	if e.ReviewedAt, err = parseNullTime(reviewedAt); err != nil {
		return attendance.ClockEntry{}, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.ClockEntry{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.ClockEntry{}, err
	}
	return e, nil
}

func (r *clockEntryRepository) list(ctx context.Context, op, query string, args ...any) ([]attendance.ClockEntry, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.StorageError(op, err)
	}
	defer rows.Close()

	entries := make([]attendance.ClockEntry, 0)
	for rows.Next() {
		e, err := scanClockEntry(rows)
		if err != nil {
			return nil, database.StorageError(op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.StorageError(op, err)
	}
	return entries, nil
}

// Create implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) Create(ctx context.Context, entry attendance.ClockEntry) (attendance.ClockEntry, error) {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO clock_entries (
			id, user_id, clock_in, expected_clock_in, is_late, late_minutes,
			is_overtime, overtime_minutes, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		formatTime(entry.ClockIn),
		entry.ExpectedClockIn,
		entry.IsLate,
		entry.LateMinutes,
		entry.IsOvertime,
		entry.OvertimeMinutes,
		string(entry.Status),
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.ClockEntry{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.ClockEntry{}, database.StorageError("create clock entry", err)
	}
	return entry, nil
}

// FindOpenForUser implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) FindOpenForUser(ctx context.Context, userID string) (*attendance.ClockEntry, error) {
	row := r.s.db.QueryRowContext(ctx,
		`SELECT `+clockEntryColumns+` FROM clock_entries
		 WHERE user_id = ? AND status = 'in_progress' LIMIT 1`, userID)

	e, err := scanClockEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.StorageError("find open clock entry", err)
	}
	return &e, nil
}

// GetByID implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) GetByID(ctx context.Context, id string) (attendance.ClockEntry, error) {
	row := r.s.db.QueryRowContext(ctx,
		`SELECT `+clockEntryColumns+` FROM clock_entries WHERE id = ?`, id)

	e, err := scanClockEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.ClockEntry{}, fmt.Errorf("clock entry with id %s: %w", id, attendance.ErrClockEntryNotFound)
		}
		return attendance.ClockEntry{}, database.StorageError("get clock entry", err)
	}
	return e, nil
}

// Update implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) Update(ctx context.Context, entry attendance.ClockEntry, from attendance.Status) error {
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE clock_entries SET
			clock_out = ?, duration_minutes = ?, is_overtime = ?, overtime_minutes = ?,
			status = ?, reviewed_by = ?, reviewed_at = ?, review_note = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		formatTimePtr(entry.ClockOut),
		entry.DurationMinutes,
		entry.IsOvertime,
		entry.OvertimeMinutes,
		string(entry.Status),
		entry.ReviewedBy,
		formatTimePtr(entry.ReviewedAt),
		entry.ReviewNote,
		formatTime(entry.UpdatedAt),
		entry.ID,
		string(from),
	)
	if err != nil {
		return database.StorageError("update clock entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.StorageError("update clock entry", err)
	}
	if n == 0 {
		return fmt.Errorf("clock entry %s is no longer %s: %w", entry.ID, from, attendance.ErrInvalidTransition)
	}
	return nil
}

// ListForUser implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.ClockEntry, error) {
	return r.list(ctx, "list clock entries",
		`SELECT `+clockEntryColumns+` FROM clock_entries
		 WHERE user_id = ? AND clock_in >= ? AND clock_in < ?
		 ORDER BY clock_in DESC`,
		userID, formatTime(from), formatTime(to))
}

// ListOpenStartedBefore implements attendance.ClockEntryRepository.
func (r *clockEntryRepository) ListOpenStartedBefore(ctx context.Context, t time.Time) ([]attendance.ClockEntry, error) {
	return r.list(ctx, "list stale clock entries",
		`SELECT `+clockEntryColumns+` FROM clock_entries
		 WHERE status = 'in_progress' AND clock_in < ?
		 ORDER BY clock_in ASC`,
		formatTime(t))
}
