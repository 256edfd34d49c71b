package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/stats"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"golang.org/x/sync/errgroup"
)

type StatsServiceImpl struct {
	workLogs     worklog.WorkLogRepository
	clockEntries attendance.ClockEntryRepository
	registry     registry.Registry
	policies     policy.Provider
	maxRangeDays int
}

func NewStatsService(
	workLogRepo worklog.WorkLogRepository,
	clockEntryRepo attendance.ClockEntryRepository,
	reg registry.Registry,
	policies policy.Provider,
	maxRangeDays int,
) stats.StatsService {
	return &StatsServiceImpl{
		workLogs:     workLogRepo,
		clockEntries: clockEntryRepo,
		registry:     reg,
		policies:     policies,
		maxRangeDays: maxRangeDays,
	}
}

func (s *StatsServiceImpl) parseRange(q stats.RangeQuery) (daterange.DateRange, error) {
	return daterange.Parse(q.StartDate, q.EndDate, s.maxRangeDays)
}

// GetUserTimeStats implements stats.StatsService.
func (s *StatsServiceImpl) GetUserTimeStats(ctx context.Context, caller user.Identity, userID string, q stats.RangeQuery) (stats.UserTimeStats, error) {
	if userID == "" {
		return stats.UserTimeStats{}, user.ErrUserIDRequired
	}
	if !caller.CanAccessUser(userID) {
		return stats.UserTimeStats{}, stats.ErrForbidden
	}
	r, err := s.parseRange(q)
	if err != nil {
		return stats.UserTimeStats{}, err
	}

	logs, err := s.workLogs.ListForUser(ctx, userID, r)
	if err != nil {
		return stats.UserTimeStats{}, fmt.Errorf("failed to list work logs: %w", err)
	}

	projectNames := s.names(ctx, "project", s.registry.ProjectNames, projectIDs(logs))

	return stats.UserTime(userID, r, logs, projectNames), nil
}

// GetProjectTimeStats implements stats.StatsService.
func (s *StatsServiceImpl) GetProjectTimeStats(ctx context.Context, caller user.Identity, projectID string, q stats.RangeQuery) (stats.ProjectTimeStats, error) {
	if projectID == "" {
		return stats.ProjectTimeStats{}, stats.ErrProjectIDRequired
	}
	if !caller.Can(user.PermissionReportsView) {
		return stats.ProjectTimeStats{}, stats.ErrForbidden
	}
	r, err := s.parseRange(q)
	if err != nil {
		return stats.ProjectTimeStats{}, err
	}

	var (
		logs         []worklog.WorkLog
		projectNames map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.workLogs.ListForProject(gctx, projectID, r)
		if err != nil {
			return fmt.Errorf("failed to list work logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		projectNames = s.names(gctx, "project", s.registry.ProjectNames, []string{projectID})
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats.ProjectTimeStats{}, err
	}

	var userNames, taskTitles map[string]string
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		userNames = s.names(gctx, "user", s.registry.UserNames, userIDs(logs))
		return nil
	})
	g.Go(func() error {
		taskTitles = s.names(gctx, "task", s.registry.TaskTitles, taskIDs(logs))
		return nil
	})
	_ = g.Wait()

	projectName := projectID
	if n, ok := projectNames[projectID]; ok && n != "" {
		projectName = n
	}

	return stats.ProjectTime(projectID, projectName, r, logs, userNames, taskTitles), nil
}

// GetDailyWorkSummary implements stats.StatsService.
func (s *StatsServiceImpl) GetDailyWorkSummary(ctx context.Context, caller user.Identity, userID string, q stats.RangeQuery) ([]stats.DailyWorkSummary, error) {
	if userID == "" {
		return nil, user.ErrUserIDRequired
	}
	if !caller.CanAccessUser(userID) {
		return nil, stats.ErrForbidden
	}
	r, err := s.parseRange(q)
	if err != nil {
		return nil, err
	}

	logs, err := s.workLogs.ListForUser(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}

	var taskTitles, projectNames map[string]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		taskTitles = s.names(gctx, "task", s.registry.TaskTitles, taskIDs(logs))
		return nil
	})
	g.Go(func() error {
		projectNames = s.names(gctx, "project", s.registry.ProjectNames, projectIDs(logs))
		return nil
	})
	_ = g.Wait()

	return stats.Daily(r, logs, taskTitles, projectNames), nil
}

// GetAttendanceStats implements stats.StatsService.
func (s *StatsServiceImpl) GetAttendanceStats(ctx context.Context, caller user.Identity, userID string, q stats.RangeQuery) (stats.AttendanceStats, error) {
	if userID == "" {
		return stats.AttendanceStats{}, user.ErrUserIDRequired
	}
	if !caller.CanAccessUser(userID) {
		return stats.AttendanceStats{}, stats.ErrForbidden
	}
	r, err := s.parseRange(q)
	if err != nil {
		return stats.AttendanceStats{}, err
	}

	pol, err := s.policies.ForUser(ctx, userID)
	if err != nil {
		return stats.AttendanceStats{}, err
	}
	from, to := r.Bounds(pol.Location)

	var (
		entries []attendance.ClockEntry
		open    *attendance.ClockEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.clockEntries.ListForUser(gctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list clock entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		open, err = s.clockEntries.FindOpenForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to find open session: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats.AttendanceStats{}, err
	}

	out := stats.Attendance(userID, r, entries, pol.Location)
	out.CurrentlyClockedIn = open != nil
	return out, nil
}

// names resolves display names; a registry failure degrades to raw ids.
func (s *StatsServiceImpl) names(ctx context.Context, kind string, resolve func(context.Context, []string) (map[string]string, error), ids []string) map[string]string {
	if len(ids) == 0 {
		return map[string]string{}
	}
	names, err := resolve(ctx, ids)
	if err != nil {
		slog.Warn("Failed to resolve display names", "kind", kind, "count", len(ids), "error", err)
		return map[string]string{}
	}
	return names
}

func projectIDs(logs []worklog.WorkLog) []string {
	return distinct(logs, func(l worklog.WorkLog) *string { return l.ProjectID })
}

func taskIDs(logs []worklog.WorkLog) []string {
	return distinct(logs, func(l worklog.WorkLog) *string { return l.TaskID })
}

func userIDs(logs []worklog.WorkLog) []string {
	return distinct(logs, func(l worklog.WorkLog) *string { return &l.UserID })
}

func distinct(logs []worklog.WorkLog, key func(worklog.WorkLog) *string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range logs {
		k := key(l)
		if k == nil || *k == "" {
			continue
		}
		if _, ok := seen[*k]; ok {
			continue
		}
		seen[*k] = struct{}{}
		out = append(out, *k)
	}
	return out
}
