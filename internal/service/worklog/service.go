package worklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const entityWorkLog = "work_log"

type WorkLogServiceImpl struct {
	worklog.WorkLogRepository
	registry     registry.Registry
	authz        worklog.Authorizer
	audit        audit.Emitter
	maxRangeDays int
	now          func() time.Time
}

func NewWorkLogService(
	workLogRepo worklog.WorkLogRepository,
	reg registry.Registry,
	authz worklog.Authorizer,
	emitter audit.Emitter,
	maxRangeDays int,
) worklog.WorkLogService {
	if authz == nil {
		authz = worklog.OwnerOrAdmin{}
	}
	if emitter == nil {
		emitter = audit.Discard
	}
	return &WorkLogServiceImpl{
		WorkLogRepository: workLogRepo,
		registry:          reg,
		authz:             authz,
		audit:             emitter,
		maxRangeDays:      maxRangeDays,
		now:               time.Now,
	}
}

func (s *WorkLogServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) Create(ctx context.Context, caller user.Identity, req worklog.CreateWorkLogRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, fmt.Errorf("%w: %w", worklog.ErrInvalidWorkLog, err)
	}

	userID := req.UserID
	if userID == "" {
		userID = caller.UserID
	}
	if !s.authz.CanActFor(caller, userID) {
		return worklog.WorkLogResponse{}, worklog.ErrForbidden
	}

	projectID := req.ProjectID
	if req.TaskID != nil && projectID == nil {
		owner, err := s.registry.TaskProject(ctx, *req.TaskID)
		switch {
		case err == nil:
			projectID = &owner
		case errors.Is(err, registry.ErrTaskNotFound):
			slog.Warn("Work log references unknown task", "task_id", *req.TaskID, "user_id", userID)
		default:
			return worklog.WorkLogResponse{}, fmt.Errorf("failed to resolve task project: %w", err)
		}
	}

	workDate, _ := time.Parse("2006-01-02", req.WorkDate)

	id, err := uuid.NewV7()
	if err != nil {
		return worklog.WorkLogResponse{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.clock()
	log := worklog.WorkLog{
		ID:          id.String(),
		UserID:      userID,
		TaskID:      req.TaskID,
		ProjectID:   projectID,
		WorkDate:    workDate,
		Hours:       req.Hours,
		Description: req.Description,
		IsBillable:  req.IsBillable,
		WorkType:    worklog.WorkType(req.WorkType),
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.WorkLogRepository.Create(ctx, log)
	if err != nil {
		return worklog.WorkLogResponse{}, fmt.Errorf("failed to create work log: %w", err)
	}

	s.emit(ctx, audit.TypeWorkLogCreated, caller, created)

	return worklog.NewWorkLogResponse(created), nil
}

// Update implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) Update(ctx context.Context, caller user.Identity, req worklog.UpdateWorkLogRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, fmt.Errorf("%w: %w", worklog.ErrInvalidWorkLog, err)
	}

	existing, err := s.WorkLogRepository.FindByID(ctx, req.ID)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}

	if !s.authz.CanModify(caller, existing) {
		return worklog.WorkLogResponse{}, worklog.ErrForbidden
	}

	changed := req.Apply(existing)
	changed.UpdatedAt = s.clock()

	updated, err := s.WorkLogRepository.Update(ctx, changed)
	if err != nil {
		if errors.Is(err, worklog.ErrWorkLogNotFound) {
			return worklog.WorkLogResponse{}, err
		}
		return worklog.WorkLogResponse{}, fmt.Errorf("failed to update work log: %w", err)
	}

	s.emit(ctx, audit.TypeWorkLogUpdated, caller, updated)

	return worklog.NewWorkLogResponse(updated), nil
}

// Delete implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) Delete(ctx context.Context, caller user.Identity, id string) error {
	existing, err := s.WorkLogRepository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.authz.CanModify(caller, existing) {
		return worklog.ErrForbidden
	}

	if err := s.WorkLogRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, worklog.ErrWorkLogNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete work log: %w", err)
	}

	s.emit(ctx, audit.TypeWorkLogDeleted, caller, existing)

	return nil
}

// Get implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) Get(ctx context.Context, caller user.Identity, id string) (worklog.WorkLogResponse, error) {
	log, err := s.WorkLogRepository.FindByID(ctx, id)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}

	if !canRead(caller, log.UserID) {
		return worklog.WorkLogResponse{}, worklog.ErrForbidden
	}

	return worklog.NewWorkLogResponse(log), nil
}

// List implements worklog.WorkLogService. task_id takes precedence over
// project_id, which takes precedence over user_id.
func (s *WorkLogServiceImpl) List(ctx context.Context, caller user.Identity, filter worklog.ListFilter) (worklog.ListWorkLogsResponse, error) {
	if filter.UserID != "" && !canRead(caller, filter.UserID) {
		return worklog.ListWorkLogsResponse{}, worklog.ErrForbidden
	}

	var (
		r        daterange.DateRange
		hasRange bool
	)
	if filter.StartDate != "" || filter.EndDate != "" || filter.TaskID == "" {
		parsed, err := daterange.Parse(filter.StartDate, filter.EndDate, s.maxRangeDays)
		if err != nil {
			return worklog.ListWorkLogsResponse{}, err
		}
		r, hasRange = parsed, true
	}

	var (
		logs []worklog.WorkLog
		err  error
	)
	switch {
	case filter.TaskID != "":
		logs, err = s.WorkLogRepository.ListForTask(ctx, filter.TaskID)
	case filter.ProjectID != "":
		logs, err = s.WorkLogRepository.ListForProject(ctx, filter.ProjectID, r)
	default:
		userID := filter.UserID
		if userID == "" {
			userID = caller.UserID
		}
		logs, err = s.WorkLogRepository.ListForUser(ctx, userID, r)
	}
	if err != nil {
		return worklog.ListWorkLogsResponse{}, fmt.Errorf("failed to list work logs: %w", err)
	}

	resp := worklog.ListWorkLogsResponse{
		TotalHours: decimal.Zero,
		WorkLogs:   make([]worklog.WorkLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		if hasRange && !r.Contains(l.WorkDate) {
			continue
		}
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		// task and project listings only show what the caller may read
		if !canRead(caller, l.UserID) {
			continue
		}
		resp.TotalHours = resp.TotalHours.Add(l.Hours)
		resp.WorkLogs = append(resp.WorkLogs, worklog.NewWorkLogResponse(l))
	}
	resp.TotalCount = len(resp.WorkLogs)

	return resp, nil
}

func (s *WorkLogServiceImpl) emit(ctx context.Context, eventType audit.EventType, caller user.Identity, l worklog.WorkLog) {
	data := map[string]any{
		"work_date": daterange.FormatDate(l.WorkDate),
		"hours":     l.Hours.String(),
	}
	if l.ProjectID != nil {
		data["project_id"] = *l.ProjectID
	}
	if l.TaskID != nil {
		data["task_id"] = *l.TaskID
	}
	s.audit.Emit(ctx, audit.Event{
		Type:       eventType,
		UserID:     l.UserID,
		ActorID:    caller.UserID,
		EntityType: entityWorkLog,
		EntityID:   l.ID,
		Data:       data,
	})
}

func canRead(caller user.Identity, userID string) bool {
	return caller.CanAccessUser(userID) || caller.Can(user.PermissionWorkLogManageAll)
}
