package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const workLogColumns = `
	id, user_id, task_id, project_id, work_date, hours::text,
	description, is_billable, work_type, created_by, created_at, updated_at`

type workLogRepository struct {
	db *database.DB
}

func NewWorkLogRepository(db *database.DB) worklog.WorkLogRepository {
	return &workLogRepository{db: db}
}

func scanWorkLog(row pgx.Row) (worklog.WorkLog, error) {
	var (
		l        worklog.WorkLog
		hours    string
		workType string
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.TaskID, &l.ProjectID, &l.WorkDate, &hours,
		&l.Description, &l.IsBillable, &workType, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return worklog.WorkLog{}, err
	}

	l.Hours, err = decimal.NewFromString(hours)
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("invalid hours %q: %w", hours, err)
	}
	l.WorkType = worklog.WorkType(workType)
	l.WorkDate = daterange.Date(l.WorkDate)
	return l, nil
}

func collectWorkLogs(rows pgx.Rows) ([]worklog.WorkLog, error) {
	defer rows.Close()

	logs := make([]worklog.WorkLog, 0)
	for rows.Next() {
		l, err := scanWorkLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *workLogRepository) list(ctx context.Context, op, query string, args ...any) ([]worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.StorageError(op, err)
	}

	logs, err := collectWorkLogs(rows)
	if err != nil {
		return nil, database.StorageError(op, err)
	}
	return logs, nil
}

// Create implements worklog.WorkLogRepository.
func (r *workLogRepository) Create(ctx context.Context, l worklog.WorkLog) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_logs (
			id, user_id, task_id, project_id, work_date, hours,
			description, is_billable, work_type, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := q.Exec(ctx, query,
		l.ID,
		l.UserID,
		l.TaskID,
		l.ProjectID,
		l.WorkDate,
		l.Hours.String(),
		l.Description,
		l.IsBillable,
		string(l.WorkType),
		l.CreatedBy,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return worklog.WorkLog{}, database.StorageError("create work log", err)
	}

	return l, nil
}

// Update implements worklog.WorkLogRepository.
func (r *workLogRepository) Update(ctx context.Context, l worklog.WorkLog) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_logs SET
			task_id = $1,
			project_id = $2,
			work_date = $3,
			hours = $4::numeric,
			description = $5,
			is_billable = $6,
			work_type = $7,
			updated_at = $8
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		l.TaskID,
		l.ProjectID,
		l.WorkDate,
		l.Hours.String(),
		l.Description,
		l.IsBillable,
		string(l.WorkType),
		l.UpdatedAt,
		l.ID,
	)
	if err != nil {
		return worklog.WorkLog{}, database.StorageError("update work log", err)
	}
	if tag.RowsAffected() == 0 {
		return worklog.WorkLog{}, fmt.Errorf("work log with id %s: %w", l.ID, worklog.ErrWorkLogNotFound)
	}

	return l, nil
}

// Delete implements worklog.WorkLogRepository.
func (r *workLogRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_logs WHERE id = $1`, id)
	if err != nil {
		return database.StorageError("delete work log", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("work log with id %s: %w", id, worklog.ErrWorkLogNotFound)
	}

	return nil
}

// FindByID implements worklog.WorkLogRepository.
func (r *workLogRepository) FindByID(ctx context.Context, id string) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workLogColumns + ` FROM work_logs WHERE id = $1`

	l, err := scanWorkLog(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worklog.WorkLog{}, fmt.Errorf("work log with id %s: %w", id, worklog.ErrWorkLogNotFound)
		}
		return worklog.WorkLog{}, database.StorageError("get work log", err)
	}

	return l, nil
}

// ListForUser implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForUser(ctx context.Context, userID string, dr daterange.DateRange) ([]worklog.WorkLog, error) {
	query := `SELECT ` + workLogColumns + `
		FROM work_logs
		WHERE user_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date ASC, created_at ASC
	`
	return r.list(ctx, "list work logs for user", query, userID, dr.Start, dr.End)
}

// ListForTask implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForTask(ctx context.Context, taskID string) ([]worklog.WorkLog, error) {
	query := `SELECT ` + workLogColumns + `
		FROM work_logs
		WHERE task_id = $1
		ORDER BY work_date ASC, created_at ASC
	`
	return r.list(ctx, "list work logs for task", query, taskID)
}

// ListForProject implements worklog.WorkLogRepository.
func (r *workLogRepository) ListForProject(ctx context.Context, projectID string, dr daterange.DateRange) ([]worklog.WorkLog, error) {
	query := `SELECT ` + workLogColumns + `
		FROM work_logs
		WHERE project_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date ASC, created_at ASC
	`
	return r.list(ctx, "list work logs for project", query, projectID, dr.Start, dr.End)
}
