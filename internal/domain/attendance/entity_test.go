package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLateMinutesAt(t *testing.T) {
	expected := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		clockIn time.Time
		want    int
	}{
		{"early", expected.Add(-10 * time.Minute), 0},
		{"exactly on time", expected, 0},
		{"under a minute late", expected.Add(59 * time.Second), 0},
		{"one minute late", expected.Add(time.Minute), 1},
		{"seven minutes late truncated", expected.Add(7*time.Minute + 59*time.Second), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LateMinutesAt(tt.clockIn, expected))
		})
	}
}

func TestOvertimeMinutesFor(t *testing.T) {
	assert.Equal(t, 0, OvertimeMinutesFor(479, 480))
	assert.Equal(t, 0, OvertimeMinutesFor(480, 480))
	assert.Equal(t, 1, OvertimeMinutesFor(481, 480))
	assert.Equal(t, 47, OvertimeMinutesFor(527, 480))
	assert.Equal(t, 0, OvertimeMinutesFor(0, 480))
}

func TestDurationMinutesBetween(t *testing.T) {
	in := time.Date(2024, 1, 1, 9, 7, 30, 0, time.UTC)

	for _, d := range []time.Duration{0, 59 * time.Second, 8*time.Hour + 47*time.Minute, 8*time.Hour + 47*time.Minute + 59*time.Second, 30 * time.Hour} {
		got := DurationMinutesBetween(in, in.Add(d))
		assert.Equal(t, int(d/time.Minute), got, "duration %s", d)
	}
}

func TestClockEntry_Close(t *testing.T) {
	in := time.Date(2024, 1, 1, 9, 7, 0, 0, time.UTC)
	open := ClockEntry{ID: "e-1", UserID: "u-1", ClockIn: in, Status: StatusInProgress, LateMinutes: 7, IsLate: true}

	closed, err := open.Close(in.Add(8*time.Hour+47*time.Minute), 480)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, closed.Status)
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 527, *closed.DurationMinutes)
	assert.Equal(t, 47, closed.OvertimeMinutes)
	assert.True(t, closed.IsOvertime)
	assert.True(t, closed.IsLate)

	// receiver is untouched
	assert.Equal(t, StatusInProgress, open.Status)
	assert.Nil(t, open.DurationMinutes)

	_, err = closed.Close(in.Add(9*time.Hour), 480)
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestClockEntry_Close_ClampsBackwardsClock(t *testing.T) {
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	open := ClockEntry{ClockIn: in, Status: StatusInProgress}

	closed, err := open.Close(in.Add(-time.Minute), 480)
	require.NoError(t, err)
	assert.True(t, closed.ClockOut.Equal(in))
	assert.Equal(t, 0, *closed.DurationMinutes)
}

func TestClockEntry_Review(t *testing.T) {
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	duration := 500
	completed := ClockEntry{Status: StatusCompleted, DurationMinutes: &duration, OvertimeMinutes: 20, IsOvertime: true}

	approved, err := completed.Review(StatusApproved, "mgr-1", nil, at)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "mgr-1", *approved.ReviewedBy)
	assert.Equal(t, 20, approved.OvertimeMinutes)

	_, err = approved.Review(StatusRejected, "mgr-1", nil, at)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = ClockEntry{Status: StatusInProgress}.Review(StatusApproved, "mgr-1", nil, at)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = completed.Review(StatusCompleted, "mgr-1", nil, at)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestReviewRequest_Validate(t *testing.T) {
	note := "forgot to clock out"

	ok := ReviewRequest{ID: "e-1", Decision: StatusRejected, Note: &note}
	assert.NoError(t, ok.Validate())

	missingNote := ReviewRequest{ID: "e-1", Decision: StatusRejected}
	assert.Error(t, missingNote.Validate())

	approve := ReviewRequest{ID: "e-1", Decision: StatusApproved}
	assert.NoError(t, approve.Validate())
}
