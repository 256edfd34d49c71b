package attendance

import (
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	UserID          string  `json:"-"`
	ExpectedClockIn *string `json:"expected_clock_in,omitempty"` // HH:MM, overrides policy
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.ExpectedClockIn != nil && !validator.IsValidTimeOfDay(*r.ExpectedClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_clock_in",
			Message: "expected_clock_in must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	UserID string `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	if validator.IsEmpty(r.UserID) {
		return validator.ValidationErrors{{
			Field:   "user_id",
			Message: "user_id is required",
		}}
	}
	return nil
}

// ReviewRequest approves or rejects a completed entry
type ReviewRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Decision   Status  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "attendance id is required",
		})
	}

	if r.Decision != StatusApproved && r.Decision != StatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approved, rejected",
		})
	}

	// Rejections must say why
	if r.Decision == StatusRejected && (r.Note == nil || validator.IsEmpty(*r.Note)) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "rejection note is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListFilter struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

type ClockEntryResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	ClockIn         string  `json:"clock_in"`
	ClockOut        *string `json:"clock_out,omitempty"`
	ExpectedClockIn string  `json:"expected_clock_in"`
	IsLate          bool    `json:"is_late"`
	LateMinutes     int     `json:"late_minutes"`
	DurationMinutes *int    `json:"duration_minutes"`
	IsOvertime      bool    `json:"is_overtime"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Status          Status  `json:"status"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	ReviewNote      *string `json:"review_note,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// NewClockEntryResponse formats timestamps as RFC3339 in UTC
func NewClockEntryResponse(e ClockEntry) ClockEntryResponse {
	resp := ClockEntryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		ClockIn:         e.ClockIn.UTC().Format(time.RFC3339),
		ExpectedClockIn: e.ExpectedClockIn,
		IsLate:          e.IsLate,
		LateMinutes:     e.LateMinutes,
		DurationMinutes: e.DurationMinutes,
		IsOvertime:      e.IsOvertime,
		OvertimeMinutes: e.OvertimeMinutes,
		Status:          e.Status,
		ReviewedBy:      e.ReviewedBy,
		ReviewNote:      e.ReviewNote,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.ClockOut != nil {
		s := e.ClockOut.UTC().Format(time.RFC3339)
		resp.ClockOut = &s
	}
	if e.ReviewedAt != nil {
		s := e.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type ListClockEntriesResponse struct {
	UserID     string               `json:"user_id"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	TotalCount int                  `json:"total_count"`
	Entries    []ClockEntryResponse `json:"entries"`
}

// ========================================
// ATTENDANCE STATUS DTOs
// ========================================

type StatusResponse struct {
	HasOpenSession bool                `json:"has_open_session"`
	OpenSession    *ClockEntryResponse `json:"open_session,omitempty"`
	CanClockIn     bool                `json:"can_clock_in"`
	CanClockOut    bool                `json:"can_clock_out"`
	Policy         PolicyInfo          `json:"policy"`
	Message        string              `json:"message"`
}

type PolicyInfo struct {
	ExpectedClockIn      string `json:"expected_clock_in"`
	StandardDailyMinutes int    `json:"standard_daily_minutes"`
	Timezone             string `json:"timezone"`
}
