package worklog

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkType string

const (
	WorkTypeRegular      WorkType = "regular"
	WorkTypeUnpaid       WorkType = "unpaid"
	WorkTypeOvertime     WorkType = "overtime"
	WorkTypeOvertimeComp WorkType = "overtime_comp"
	WorkTypeBusinessTrip WorkType = "business_trip"
	WorkTypeLate         WorkType = "late"
)

var WorkTypeValues = []string{
	string(WorkTypeRegular),
	string(WorkTypeUnpaid),
	string(WorkTypeOvertime),
	string(WorkTypeOvertimeComp),
	string(WorkTypeBusinessTrip),
	string(WorkTypeLate),
}

// HoursScale is the number of decimal places both stores keep for hours.
const HoursScale = 4

var (
	MinHours = decimal.Zero
	MaxHours = decimal.NewFromInt(24)
)

// WorkLog is hours logged against a task and/or project. WorkDate is a
// calendar date stored as midnight UTC.
type WorkLog struct {
	ID          string
	UserID      string
	TaskID      *string
	ProjectID   *string
	WorkDate    time.Time
	Hours       decimal.Decimal
	Description *string
	IsBillable  bool
	WorkType    WorkType
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidHours reports whether h is in (0, 24] with at most HoursScale
// decimal places.
func ValidHours(h decimal.Decimal) bool {
	return h.GreaterThan(MinHours) && h.LessThanOrEqual(MaxHours) && h.Equal(h.Round(HoursScale))
}
