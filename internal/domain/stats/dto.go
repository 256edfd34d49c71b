package stats

import (
	"github.com/shopspring/decimal"
)

// RangeQuery is the raw start_date/end_date pair from the caller
type RangeQuery struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ========================================
// WORK LOG STATS
// ========================================

type ProjectHours struct {
	ProjectID   *string         `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Hours       decimal.Decimal `json:"hours"`
	LogsCount   int             `json:"logs_count"`
}

type UserTimeStats struct {
	UserID             string          `json:"user_id"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	BillableHours      decimal.Decimal `json:"billable_hours"`
	NonBillableHours   decimal.Decimal `json:"non_billable_hours"`
	TaskHours          decimal.Decimal `json:"task_hours"`
	GeneralHours       decimal.Decimal `json:"general_hours"`
	DaysWorked         int             `json:"days_worked"`
	LogsCount          int             `json:"logs_count"`
	AverageHoursPerDay decimal.Decimal `json:"average_hours_per_day"`
	ByProject          []ProjectHours  `json:"by_project"`
}

type UserHours struct {
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	Hours         decimal.Decimal `json:"hours"`
	BillableHours decimal.Decimal `json:"billable_hours"`
	LogsCount     int             `json:"logs_count"`
}

type TaskHours struct {
	TaskID    *string         `json:"task_id"`
	TaskTitle string          `json:"task_title"`
	Hours     decimal.Decimal `json:"hours"`
	LogsCount int             `json:"logs_count"`
}

type ProjectTimeStats struct {
	ProjectID        string          `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	BillableHours    decimal.Decimal `json:"billable_hours"`
	NonBillableHours decimal.Decimal `json:"non_billable_hours"`
	LogsCount        int             `json:"logs_count"`
	ByUser           []UserHours     `json:"by_user"`
	ByTask           []TaskHours     `json:"by_task"`
}

type DailyLogSummary struct {
	ID          string          `json:"id"`
	Hours       decimal.Decimal `json:"hours"`
	Description *string         `json:"description,omitempty"`
	IsBillable  bool            `json:"is_billable"`
	WorkType    string          `json:"work_type"`
	TaskID      *string         `json:"task_id,omitempty"`
	TaskTitle   *string         `json:"task_title,omitempty"`
	ProjectID   *string         `json:"project_id,omitempty"`
	ProjectName *string         `json:"project_name,omitempty"`
}

// DailyWorkSummary covers one date with at least one log; empty dates are
// never emitted.
type DailyWorkSummary struct {
	Date       string            `json:"date"`
	TotalHours decimal.Decimal   `json:"total_hours"`
	Logs       []DailyLogSummary `json:"logs"`
}

// ========================================
// ATTENDANCE STATS
// ========================================

type AttendanceStats struct {
	UserID             string          `json:"user_id"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	Timezone           string          `json:"timezone"`
	TotalMinutes       int             `json:"total_minutes"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	OvertimeMinutes    int             `json:"overtime_minutes"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	DaysWorked         int             `json:"days_worked"`
	AverageHoursPerDay decimal.Decimal `json:"average_hours_per_day"`
	EntriesCount       int             `json:"entries_count"`
	LateCount          int             `json:"late_count"`
	LateMinutes        int             `json:"late_minutes"`
	OpenSessions       int             `json:"open_sessions"`
	CurrentlyClockedIn bool            `json:"currently_clocked_in"`
}
