package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/shopspring/decimal"
)

const (
	NoProjectName = "No project"
	GeneralTask   = "General"
)

var minutesPerHour = decimal.NewFromInt(60)

// AverageHours divides total by days, treating zero days as one.
func AverageHours(total decimal.Decimal, days int) decimal.Decimal {
	return total.DivRound(decimal.NewFromInt(int64(max(1, days))), 2)
}

// MinutesToHours converts whole minutes to hours rounded to 2 places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).DivRound(minutesPerHour, 2)
}

// UserTime rolls up the logs of one user. Logs whose work_date is outside r
// are ignored.
func UserTime(userID string, r daterange.DateRange, logs []worklog.WorkLog, projectNames map[string]string) UserTimeStats {
	out := UserTimeStats{
		UserID:    userID,
		StartDate: daterange.FormatDate(r.Start),
		EndDate:   daterange.FormatDate(r.End),
		ByProject: []ProjectHours{},
	}

	total, billable, task := decimal.Zero, decimal.Zero, decimal.Zero
	days := make(map[time.Time]struct{})
	byProject := make(map[string]*ProjectHours)

	for _, l := range logs {
		if !r.Contains(l.WorkDate) {
			continue
		}
		out.LogsCount++
		total = total.Add(l.Hours)
		if l.IsBillable {
			billable = billable.Add(l.Hours)
		}
		if l.TaskID != nil {
			task = task.Add(l.Hours)
		}
		days[daterange.Date(l.WorkDate)] = struct{}{}

		key := deref(l.ProjectID)
		g, ok := byProject[key]
		if !ok {
			g = &ProjectHours{ProjectID: l.ProjectID, ProjectName: NoProjectName, Hours: decimal.Zero}
			if l.ProjectID != nil {
				g.ProjectName = nameOr(projectNames, key)
			}
			byProject[key] = g
		}
		g.Hours = g.Hours.Add(l.Hours)
		g.LogsCount++
	}

	out.TotalHours = total
	out.BillableHours = billable
	out.NonBillableHours = total.Sub(billable)
	out.TaskHours = task
	out.GeneralHours = total.Sub(task)
	out.DaysWorked = len(days)
	out.AverageHoursPerDay = AverageHours(total, out.DaysWorked)

	for _, g := range byProject {
		out.ByProject = append(out.ByProject, *g)
	}
	slices.SortFunc(out.ByProject, func(a, b ProjectHours) int {
		return byHoursDesc(a.Hours, b.Hours, a.ProjectName, b.ProjectName, deref(a.ProjectID), deref(b.ProjectID))
	})

	return out
}

// ProjectTime rolls up logs belonging to projectID.
func ProjectTime(projectID, projectName string, r daterange.DateRange, logs []worklog.WorkLog, userNames, taskTitles map[string]string) ProjectTimeStats {
	out := ProjectTimeStats{
		ProjectID:   projectID,
		ProjectName: projectName,
		StartDate:   daterange.FormatDate(r.Start),
		EndDate:     daterange.FormatDate(r.End),
		ByUser:      []UserHours{},
		ByTask:      []TaskHours{},
	}

	total, billable := decimal.Zero, decimal.Zero
	byUser := make(map[string]*UserHours)
	byTask := make(map[string]*TaskHours)

	for _, l := range logs {
		if !r.Contains(l.WorkDate) || deref(l.ProjectID) != projectID {
			continue
		}
		out.LogsCount++
		total = total.Add(l.Hours)
		if l.IsBillable {
			billable = billable.Add(l.Hours)
		}

		u, ok := byUser[l.UserID]
		if !ok {
			u = &UserHours{UserID: l.UserID, UserName: nameOr(userNames, l.UserID), Hours: decimal.Zero, BillableHours: decimal.Zero}
			byUser[l.UserID] = u
		}
		u.Hours = u.Hours.Add(l.Hours)
		if l.IsBillable {
			u.BillableHours = u.BillableHours.Add(l.Hours)
		}
		u.LogsCount++

		key := deref(l.TaskID)
		t, ok := byTask[key]
		if !ok {
			t = &TaskHours{TaskID: l.TaskID, TaskTitle: GeneralTask, Hours: decimal.Zero}
			if l.TaskID != nil {
				t.TaskTitle = nameOr(taskTitles, key)
			}
			byTask[key] = t
		}
		t.Hours = t.Hours.Add(l.Hours)
		t.LogsCount++
	}

	out.TotalHours = total
	out.BillableHours = billable
	out.NonBillableHours = total.Sub(billable)

	for _, u := range byUser {
		out.ByUser = append(out.ByUser, *u)
	}
	slices.SortFunc(out.ByUser, func(a, b UserHours) int {
		return byHoursDesc(a.Hours, b.Hours, a.UserName, b.UserName, a.UserID, b.UserID)
	})

	for _, t := range byTask {
		out.ByTask = append(out.ByTask, *t)
	}
	slices.SortFunc(out.ByTask, func(a, b TaskHours) int {
		return byHoursDesc(a.Hours, b.Hours, a.TaskTitle, b.TaskTitle, deref(a.TaskID), deref(b.TaskID))
	})

	return out
}

// Daily groups logs by work_date, ascending. Dates without logs are omitted.
func Daily(r daterange.DateRange, logs []worklog.WorkLog, taskTitles, projectNames map[string]string) []DailyWorkSummary {
	byDate := make(map[time.Time]*DailyWorkSummary)
	var dates []time.Time

	for _, l := range logs {
		if !r.Contains(l.WorkDate) {
			continue
		}
		d := daterange.Date(l.WorkDate)
		day, ok := byDate[d]
		if !ok {
			day = &DailyWorkSummary{Date: daterange.FormatDate(d), TotalHours: decimal.Zero, Logs: []DailyLogSummary{}}
			byDate[d] = day
			dates = append(dates, d)
		}
		day.TotalHours = day.TotalHours.Add(l.Hours)
		day.Logs = append(day.Logs, DailyLogSummary{
			ID:          l.ID,
			Hours:       l.Hours,
			Description: l.Description,
			IsBillable:  l.IsBillable,
			WorkType:    string(l.WorkType),
			TaskID:      l.TaskID,
			TaskTitle:   lookup(taskTitles, l.TaskID),
			ProjectID:   l.ProjectID,
			ProjectName: lookup(projectNames, l.ProjectID),
		})
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]DailyWorkSummary, 0, len(dates))
	for _, d := range dates {
		out = append(out, *byDate[d])
	}
	return out
}

// Attendance sums completed and approved entries whose clock-in falls in r,
// with calendar dates taken in loc. DaysWorked counts every date with an
// entry, rejected and open ones included. Open entries are counted
// separately; rejected entries add no minutes and no lateness.
func Attendance(userID string, r daterange.DateRange, entries []attendance.ClockEntry, loc *time.Location) AttendanceStats {
	if loc == nil {
		loc = time.UTC
	}
	out := AttendanceStats{
		UserID:    userID,
		StartDate: daterange.FormatDate(r.Start),
		EndDate:   daterange.FormatDate(r.End),
		Timezone:  loc.String(),
	}

	days := make(map[time.Time]struct{})
	for _, e := range entries {
		local := e.ClockIn.In(loc)
		if !r.Contains(local) {
			continue
		}
		out.EntriesCount++
		days[daterange.Date(local)] = struct{}{}

		if e.Status == attendance.StatusRejected {
			continue
		}
		if e.IsLate {
			out.LateCount++
			out.LateMinutes += e.LateMinutes
		}

		if e.IsOpen() {
			out.OpenSessions++
			continue
		}
		if e.Counted() {
			out.TotalMinutes += *e.DurationMinutes
			out.OvertimeMinutes += e.OvertimeMinutes
		}
	}

	out.DaysWorked = len(days)
	out.TotalHours = MinutesToHours(out.TotalMinutes)
	out.OvertimeHours = MinutesToHours(out.OvertimeMinutes)
	out.AverageHoursPerDay = AverageHours(out.TotalHours, out.DaysWorked)
	return out
}

func byHoursDesc(ha, hb decimal.Decimal, na, nb, ia, ib string) int {
	if c := hb.Cmp(ha); c != 0 {
		return c
	}
	if c := cmp.Compare(na, nb); c != 0 {
		return c
	}
	return cmp.Compare(ia, ib)
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}

func lookup(names map[string]string, id *string) *string {
	if id == nil {
		return nil
	}
	n := nameOr(names, *id)
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
