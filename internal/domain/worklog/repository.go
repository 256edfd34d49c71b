package worklog

import (
	"context"

	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
)

type WorkLogRepository interface {
	Create(ctx context.Context, log WorkLog) (WorkLog, error)

	// Update overwrites every mutable column; ErrWorkLogNotFound if id is unknown
	Update(ctx context.Context, log WorkLog) (WorkLog, error)

	// Delete removes the row; ErrWorkLogNotFound if id is unknown
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (WorkLog, error)

	// ListForUser returns logs with work_date in r, ordered by work_date then created_at
	ListForUser(ctx context.Context, userID string, r daterange.DateRange) ([]WorkLog, error)

	ListForTask(ctx context.Context, taskID string) ([]WorkLog, error)

	ListForProject(ctx context.Context, projectID string, r daterange.DateRange) ([]WorkLog, error)
}
