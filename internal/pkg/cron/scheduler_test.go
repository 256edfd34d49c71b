package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlagger struct {
	calls   atomic.Int32
	maxOpen time.Duration
	err     error
}

func (f *fakeFlagger) FlagStaleSessions(_ context.Context, maxOpen time.Duration) (int, error) {
	f.calls.Add(1)
	f.maxOpen = maxOpen
	return 2, f.err
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")

	var ran []string
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error {
		ran = append(ran, "ok")
		return nil
	}})
	s.AddJob(Job{Name: "bad", Interval: time.Hour, Fn: func(context.Context) error {
		ran = append(ran, "bad")
		return boom
	}})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, []string{"ok", "bad"}, ran)
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler()
	s.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestAttendanceJobs_FlagStaleSessions(t *testing.T) {
	f := &fakeFlagger{}
	jobs := NewAttendanceJobs(f, 16*time.Hour)

	s := NewScheduler()
	jobs.RegisterJobs(s)
	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 16*time.Hour, f.maxOpen)

	f.err = errors.New("store down")
	assert.Error(t, s.RunOnce(context.Background()))
}
