package worklog

import (
	"context"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
)

type WorkLogService interface {
	// Create validates before touching storage; bad input is ErrInvalidWorkLog
	Create(ctx context.Context, caller user.Identity, req CreateWorkLogRequest) (WorkLogResponse, error)

	// Update applies a partial change; ErrWorkLogNotFound or ErrForbidden
	Update(ctx context.Context, caller user.Identity, req UpdateWorkLogRequest) (WorkLogResponse, error)

	// Delete removes a log; ErrWorkLogNotFound or ErrForbidden
	Delete(ctx context.Context, caller user.Identity, id string) error

	Get(ctx context.Context, caller user.Identity, id string) (WorkLogResponse, error)

	List(ctx context.Context, caller user.Identity, filter ListFilter) (ListWorkLogsResponse, error)
}
