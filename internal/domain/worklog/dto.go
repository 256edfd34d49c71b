package worklog

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// WORK LOG DTOs
// ========================================

type CreateWorkLogRequest struct {
	UserID      string          `json:"user_id,omitempty"` // defaults to the caller
	TaskID      *string         `json:"task_id,omitempty"`
	ProjectID   *string         `json:"project_id,omitempty"`
	WorkDate    string          `json:"work_date"` // YYYY-MM-DD
	Hours       decimal.Decimal `json:"hours"`
	Description *string         `json:"description,omitempty"`
	IsBillable  bool            `json:"is_billable"`
	WorkType    string          `json:"work_type,omitempty"` // defaults to regular
}

func (r *CreateWorkLogRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date is required",
		})
	} else if _, valid := validator.IsValidDate(r.WorkDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be in YYYY-MM-DD format",
		})
	}

	if !ValidHours(r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be greater than 0 and at most 24, with at most 4 decimal places",
		})
	}

	if r.WorkType == "" {
		r.WorkType = string(WorkTypeRegular)
	}
	if !validator.IsInSlice(r.WorkType, WorkTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be one of: " + strings.Join(WorkTypeValues, ", "),
		})
	}

	if r.TaskID != nil && validator.IsEmpty(*r.TaskID) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id must not be blank",
		})
	}

	if r.ProjectID != nil && validator.IsEmpty(*r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateWorkLogRequest carries only the fields being changed
type UpdateWorkLogRequest struct {
	ID          string           `json:"-"`
	WorkDate    *string          `json:"work_date,omitempty"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsBillable  *bool            `json:"is_billable,omitempty"`
	WorkType    *string          `json:"work_type,omitempty"`
}

func (r *UpdateWorkLogRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkDate != nil {
		if _, valid := validator.IsValidDate(*r.WorkDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "work_date",
				Message: "work_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Hours != nil && !ValidHours(*r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be greater than 0 and at most 24, with at most 4 decimal places",
		})
	}

	if r.WorkType != nil && !validator.IsInSlice(*r.WorkType, WorkTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be one of: " + strings.Join(WorkTypeValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply returns a copy of log with the request's fields set. Call Validate first.
func (r UpdateWorkLogRequest) Apply(log WorkLog) WorkLog {
	updated := log
	if r.WorkDate != nil {
		d, _ := validator.IsValidDate(*r.WorkDate)
		updated.WorkDate = daterange.Date(d)
	}
	if r.Hours != nil {
		updated.Hours = *r.Hours
	}
	if r.Description != nil {
		// an empty description clears it
		if *r.Description == "" {
			updated.Description = nil
		} else {
			updated.Description = r.Description
		}
	}
	if r.IsBillable != nil {
		updated.IsBillable = *r.IsBillable
	}
	if r.WorkType != nil {
		updated.WorkType = WorkType(*r.WorkType)
	}
	return updated
}

type ListFilter struct {
	UserID    string `json:"user_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type WorkLogResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	TaskID      *string         `json:"task_id,omitempty"`
	ProjectID   *string         `json:"project_id,omitempty"`
	WorkDate    string          `json:"work_date"`
	Hours       decimal.Decimal `json:"hours"`
	Description *string         `json:"description,omitempty"`
	IsBillable  bool            `json:"is_billable"`
	WorkType    WorkType        `json:"work_type"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func NewWorkLogResponse(l WorkLog) WorkLogResponse {
	return WorkLogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		TaskID:      l.TaskID,
		ProjectID:   l.ProjectID,
		WorkDate:    daterange.FormatDate(l.WorkDate),
		Hours:       l.Hours,
		Description: l.Description,
		IsBillable:  l.IsBillable,
		WorkType:    l.WorkType,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type ListWorkLogsResponse struct {
	TotalCount int               `json:"total_count"`
	TotalHours decimal.Decimal   `json:"total_hours"`
	WorkLogs   []WorkLogResponse `json:"work_logs"`
}
