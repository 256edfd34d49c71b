package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/keymutex"
	"github.com/google/uuid"
)

const entityClockEntry = "clock_entry"

type AttendanceServiceImpl struct {
	attendance.ClockEntryRepository
	policies     policy.Provider
	audit        audit.Emitter
	locks        *keymutex.KeyMutex
	maxRangeDays int
	now          func() time.Time
}

func NewAttendanceService(
	clockEntryRepo attendance.ClockEntryRepository,
	policies policy.Provider,
	emitter audit.Emitter,
	maxRangeDays int,
) attendance.AttendanceService {
	if emitter == nil {
		emitter = audit.Discard
	}
	return &AttendanceServiceImpl{
		ClockEntryRepository: clockEntryRepo,
		policies:             policies,
		audit:                emitter,
		locks:                keymutex.New(),
		maxRangeDays:         maxRangeDays,
		now:                  time.Now,
	}
}

// clock returns the current instant in UTC at the precision both stores keep.
func (s *AttendanceServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	if userID == "" {
		return attendance.StatusResponse{}, user.ErrUserIDRequired
	}

	pol, err := s.policies.ForUser(ctx, userID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	open, err := s.ClockEntryRepository.FindOpenForUser(ctx, userID)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}

	resp := attendance.StatusResponse{
		Policy: attendance.PolicyInfo{
			ExpectedClockIn:      pol.ExpectedClockIn.String(),
			StandardDailyMinutes: pol.StandardDailyMinutes,
			Timezone:             pol.Location.String(),
		},
	}

	if open != nil {
		entry := attendance.NewClockEntryResponse(*open)
		resp.HasOpenSession = true
		resp.OpenSession = &entry
		resp.CanClockOut = true
		resp.Message = fmt.Sprintf("Clocked in since %s", open.ClockIn.In(pol.Location).Format("2006-01-02 15:04"))
	} else {
		resp.CanClockIn = true
		resp.Message = "Ready to clock in"
	}

	return resp, nil
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	unlock := s.locks.Lock(req.UserID)
	defer unlock()

	open, err := s.ClockEntryRepository.FindOpenForUser(ctx, req.UserID)
	if err != nil {
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}
	if open != nil {
		return attendance.ClockEntryResponse{}, attendance.ErrAlreadyClockedIn
	}

	pol, err := s.policies.ForUser(ctx, req.UserID)
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	expected := pol.ExpectedClockIn
	if req.ExpectedClockIn != nil {
		expected, err = policy.ParseTimeOfDay(*req.ExpectedClockIn)
		if err != nil {
			return attendance.ClockEntryResponse{}, err
		}
	}

	now := s.clock()
	lateMinutes := attendance.LateMinutesAt(now, expected.On(now, pol.Location))

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to generate id: %w", err)
	}

	entry := attendance.ClockEntry{
		ID:              id.String(),
		UserID:          req.UserID,
		ClockIn:         now,
		ExpectedClockIn: expected.String(),
		IsLate:          lateMinutes > 0,
		LateMinutes:     lateMinutes,
		Status:          attendance.StatusInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.ClockEntryRepository.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.ClockEntryResponse{}, err
		}
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to create clock entry: %w", err)
	}

	s.audit.Emit(ctx, audit.Event{
		Type:       audit.TypeClockIn,
		UserID:     created.UserID,
		ActorID:    created.UserID,
		EntityType: entityClockEntry,
		EntityID:   created.ID,
		Data: map[string]any{
			"expected_clock_in": created.ExpectedClockIn,
			"late_minutes":      created.LateMinutes,
		},
		OccurredAt: now,
	})

	slog.Info("Clocked in", "user_id", created.UserID, "entry_id", created.ID, "late_minutes", created.LateMinutes)

	return attendance.NewClockEntryResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	unlock := s.locks.Lock(req.UserID)
	defer unlock()

	open, err := s.ClockEntryRepository.FindOpenForUser(ctx, req.UserID)
	if err != nil {
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}
	if open == nil {
		return attendance.ClockEntryResponse{}, attendance.ErrNoOpenSession
	}

	pol, err := s.policies.ForUser(ctx, req.UserID)
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	closed, err := open.Close(s.clock(), pol.StandardDailyMinutes)
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	if err := s.ClockEntryRepository.Update(ctx, closed, attendance.StatusInProgress); err != nil {
		if errors.Is(err, attendance.ErrInvalidTransition) {
			// closed by another instance between find and update
			return attendance.ClockEntryResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to close clock entry: %w", err)
	}

	s.audit.Emit(ctx, audit.Event{
		Type:       audit.TypeClockOut,
		UserID:     closed.UserID,
		ActorID:    closed.UserID,
		EntityType: entityClockEntry,
		EntityID:   closed.ID,
		Data: map[string]any{
			"duration_minutes": *closed.DurationMinutes,
			"overtime_minutes": closed.OvertimeMinutes,
		},
		OccurredAt: *closed.ClockOut,
	})

	slog.Info("Clocked out",
		"user_id", closed.UserID,
		"entry_id", closed.ID,
		"duration_minutes", *closed.DurationMinutes,
		"overtime_minutes", closed.OvertimeMinutes)

	return attendance.NewClockEntryResponse(closed), nil
}

// Review implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Review(ctx context.Context, req attendance.ReviewRequest) (attendance.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	entry, err := s.ClockEntryRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	if entry.UserID == req.ReviewerID {
		return attendance.ClockEntryResponse{}, fmt.Errorf("cannot review own attendance: %w", attendance.ErrForbidden)
	}

	reviewed, err := entry.Review(req.Decision, req.ReviewerID, req.Note, s.clock())
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	if err := s.ClockEntryRepository.Update(ctx, reviewed, attendance.StatusCompleted); err != nil {
		if errors.Is(err, attendance.ErrInvalidTransition) {
			return attendance.ClockEntryResponse{}, err
		}
		return attendance.ClockEntryResponse{}, fmt.Errorf("failed to review clock entry: %w", err)
	}

	eventType := audit.TypeApproved
	if reviewed.Status == attendance.StatusRejected {
		eventType = audit.TypeRejected
	}
	data := map[string]any{"status": string(reviewed.Status)}
	if reviewed.ReviewNote != nil {
		data["note"] = *reviewed.ReviewNote
	}
	s.audit.Emit(ctx, audit.Event{
		Type:       eventType,
		UserID:     reviewed.UserID,
		ActorID:    req.ReviewerID,
		EntityType: entityClockEntry,
		EntityID:   reviewed.ID,
		Data:       data,
		OccurredAt: *reviewed.ReviewedAt,
	})

	return attendance.NewClockEntryResponse(reviewed), nil
}

// GetEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEntry(ctx context.Context, caller user.Identity, id string) (attendance.ClockEntryResponse, error) {
	entry, err := s.ClockEntryRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.ClockEntryResponse{}, err
	}

	if !canView(caller, entry.UserID) {
		return attendance.ClockEntryResponse{}, attendance.ErrForbidden
	}

	return attendance.NewClockEntryResponse(entry), nil
}

// ListEntries implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEntries(ctx context.Context, caller user.Identity, filter attendance.ListFilter) (attendance.ListClockEntriesResponse, error) {
	userID := filter.UserID
	if userID == "" {
		userID = caller.UserID
	}
	if !canView(caller, userID) {
		return attendance.ListClockEntriesResponse{}, attendance.ErrForbidden
	}

	r, err := daterange.Parse(filter.StartDate, filter.EndDate, s.maxRangeDays)
	if err != nil {
		return attendance.ListClockEntriesResponse{}, err
	}

	pol, err := s.policies.ForUser(ctx, userID)
	if err != nil {
		return attendance.ListClockEntriesResponse{}, err
	}

	from, to := r.Bounds(pol.Location)
	entries, err := s.ClockEntryRepository.ListForUser(ctx, userID, from, to)
	if err != nil {
		return attendance.ListClockEntriesResponse{}, fmt.Errorf("failed to list clock entries: %w", err)
	}

	resp := attendance.ListClockEntriesResponse{
		UserID:     userID,
		StartDate:  daterange.FormatDate(r.Start),
		EndDate:    daterange.FormatDate(r.End),
		TotalCount: len(entries),
		Entries:    make([]attendance.ClockEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, attendance.NewClockEntryResponse(e))
	}

	return resp, nil
}

// FlagStaleSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FlagStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error) {
	now := s.clock()
	stale, err := s.ClockEntryRepository.ListOpenStartedBefore(ctx, now.Add(-maxOpen))
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	for _, e := range stale {
		s.audit.Emit(ctx, audit.Event{
			Type:       audit.TypeSessionStale,
			UserID:     e.UserID,
			EntityType: entityClockEntry,
			EntityID:   e.ID,
			Data: map[string]any{
				"clock_in":     e.ClockIn.Format(time.RFC3339),
				"open_minutes": attendance.DurationMinutesBetween(e.ClockIn, now),
			},
			OccurredAt: now,
		})
	}

	return len(stale), nil
}

func canView(caller user.Identity, userID string) bool {
	return caller.UserID == userID || caller.Can(user.PermissionAttendanceViewAll)
}
