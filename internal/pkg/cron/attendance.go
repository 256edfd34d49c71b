package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
)

const (
	staleSessionJobName     = "flag_stale_sessions"
	staleSessionJobInterval = time.Hour
	staleSessionJobTimeout  = 5 * time.Minute
)

// StaleSessionFlagger is the part of the attendance service the job needs.
type StaleSessionFlagger interface {
	FlagStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error)
}

var _ StaleSessionFlagger = (attendance.AttendanceService)(nil)

// AttendanceJobs reports sessions left open longer than maxOpen. Entries are
// not modified; each run emits one audit event per stale session.
type AttendanceJobs struct {
	flagger StaleSessionFlagger
	maxOpen time.Duration
}

func NewAttendanceJobs(flagger StaleSessionFlagger, maxOpen time.Duration) *AttendanceJobs {
	return &AttendanceJobs{flagger: flagger, maxOpen: maxOpen}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     staleSessionJobName,
		Interval: staleSessionJobInterval,
		Timeout:  staleSessionJobTimeout,
		Fn:       j.FlagStaleSessions,
	})
}

func (j *AttendanceJobs) FlagStaleSessions(ctx context.Context) error {
	n, err := j.flagger.FlagStaleSessions(ctx, j.maxOpen)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Warn("Cron: stale attendance sessions found", "count", n, "max_open", j.maxOpen)
	}
	return nil
}
