package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const workLogColumns = `id, user_id, task_id, project_id, work_date, hours,
	description, is_billable, work_type, created_by, created_at, updated_at`

type workLogRepository struct {
	s *Store
}

func NewWorkLogRepository(s *Store) worklog.WorkLogRepository {
	return &workLogRepository{s: s}
}

func scanWorkLog(row rowScanner) (worklog.WorkLog, error) {
	var (
		l                         worklog.WorkLog
		taskID, projectID, desc   sql.NullString
		workDate, hours, workType string
		createdAt, updatedAt      string
	)
	err := row.Scan(
		&l.ID, &l.UserID, &taskID, &projectID, &workDate, &hours,
		&desc, &l.IsBillable, &workType, &l.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return worklog.WorkLog{}, err
	}

	l.TaskID = nullString(taskID)
	l.ProjectID = nullString(projectID)
	l.Description = nullString(desc)
	l.WorkType = worklog.WorkType(workType)

	if l.WorkDate, err = time.Parse(dateLayout, workDate); err != nil {
		return worklog.WorkLog{}, fmt.Errorf("parse work_date %q: %w", workDate, err)
	}
	if l.Hours, err = decimal.NewFromString(hours); err != nil {
		return worklog.WorkLog{}, fmt.Errorf("parse hours %q: %w", hours, err)
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return worklog.WorkLog{}, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return worklog.WorkLog{}, err
	}
	return l, nil
}

func (r *workLogRepository) list(ctx context.Context, op, query string, args ...any) ([]worklog.WorkLog, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.StorageError(op, err)
	}
	defer rows.Close()

	logs := make([]worklog.WorkLog, 0)
	for rows.Next() {
		l, err := scanWorkLog(rows)
		if err != nil {
			return nil, database.StorageError(op, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, database.StorageError(op, err)
	}
	return logs, nil
}

// Create implements worklog.WorkLogRepository.
func (r *workLogRepository) Create(ctx context.Context, l worklog.WorkLog) (worklog.WorkLog, error) {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO work_logs (`+workLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.UserID,
		l.TaskID,
		l.ProjectID,
		l.WorkDate.Format(dateLayout),
		l.Hours.String(),
		l.Description,
		l.IsBillable,
		string(l.WorkType),
		l.CreatedBy,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	if err != nil {
		return worklog.WorkLog{}, database.StorageError("create work log", err)
	}
	return l, nil
}

// Update implements worklog.WorkLogRepository.
func (r *workLogRepository) Update(ctx context.Context, l worklog.WorkLog) (worklog.WorkLog, error) {
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE work_logs SET
			task_id = ?, project_id = ?, work_date = ?, hours = ?,
			description = ?, is_billable = ?, work_type = ?, updated_at = ?
		 WHERE id = ?`,
		l.TaskID,
		l.ProjectID,
		l.WorkDate.Format(dateLayout),
		l.Hours.String(),
		l.Description,
		l.IsBillable,
		string(l.WorkType),
		formatTime(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return worklog.WorkLog{}, database.StorageError("update work log", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return worklog.WorkLog{}, fmt.Errorf("work log with id %s: %w", l.ID, worklog.ErrWorkLogNotFound)
	}
	return l, nil
}

// Delete implements worklog.WorkLogRepository.
func (r *workLogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM work_logs WHERE id = ?`, id)
	if err != nil {
		return database.StorageError("delete work log", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("work log with id %s: %w", id, worklog.ErrWorkLogNotFound)
	}
	return nil
}

// FindByID implements worklog.WorkLogRepository.
func (r *workLogRepository) FindByID(ctx context.Context, id string) (worklog.WorkLog, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT `+workLogColumns+` FROM work_logs WHERE id = ?`, id)

	l, err := scanWorkLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.WorkLog{}, fmt.Errorf("work log with id %s: %w", id, worklog.ErrWorkLogNotFound)
		}
		return worklog.WorkLog{}, database.StorageError("get work log", err)
	}
	return l, nil
}

// ListForUser implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForUser(ctx context.Context, userID string, dr daterange.DateRange) ([]worklog.WorkLog, error) {
	return r.list(ctx, "list work logs for user",
		`SELECT `+workLogColumns+` FROM work_logs
		 WHERE user_id = ? AND work_date BETWEEN ? AND ?
		 ORDER BY work_date ASC, created_at ASC`,
		userID, dr.Start.Format(dateLayout), dr.End.Format(dateLayout))
}

// ListForTask implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForTask(ctx context.Context, taskID string) ([]worklog.WorkLog, error) {
	return r.list(ctx, "list work logs for task",
		`SELECT `+workLogColumns+` FROM work_logs
		 WHERE task_id = ?
		 ORDER BY work_date ASC, created_at ASC`,
		taskID)
}

// ListForProject implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForProject(ctx context.Context, projectID string, dr daterange.DateRange) ([]worklog.WorkLog, error) {
	return r.list(ctx, "list work logs for project",
		`SELECT `+workLogColumns+` FROM work_logs
		 WHERE project_id = ? AND work_date BETWEEN ? AND ?
		 ORDER BY work_date ASC, created_at ASC`,
		projectID, dr.Start.Format(dateLayout), dr.End.Format(dateLayout))
}
