package stats

import (
	"context"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
)

// StatsService fetches ledger rows for a range and rolls them up on every
// call. Nothing is cached between calls.
type StatsService interface {
	GetUserTimeStats(ctx context.Context, caller user.Identity, userID string, q RangeQuery) (UserTimeStats, error)
	GetProjectTimeStats(ctx context.Context, caller user.Identity, projectID string, q RangeQuery) (ProjectTimeStats, error)
	GetDailyWorkSummary(ctx context.Context, caller user.Identity, userID string, q RangeQuery) ([]DailyWorkSummary, error)
	GetAttendanceStats(ctx context.Context, caller user.Identity, userID string, q RangeQuery) (AttendanceStats, error)
}
