package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func openEntry(id, userID string, clockIn time.Time) attendance.ClockEntry {
	return attendance.ClockEntry{
		ID:              id,
		UserID:          userID,
		ClockIn:         clockIn,
		ExpectedClockIn: "09:00",
		Status:          attendance.StatusInProgress,
		CreatedAt:       clockIn,
		UpdatedAt:       clockIn,
	}
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "worktime.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentVersion, version)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestClockEntryRepository_OneOpenSessionPerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewClockEntryRepository(newTestStore(t))
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, openEntry("e1", "u1", at))
	require.NoError(t, err)

	_, err = repo.Create(ctx, openEntry("e2", "u1", at.Add(time.Minute)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	_, err = repo.Create(ctx, openEntry("e3", "u2", at))
	assert.NoError(t, err)
}

func TestClockEntryRepository_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewClockEntryRepository(newTestStore(t))
	in := time.Date(2024, 1, 15, 9, 47, 0, 123456000, time.UTC)

	entry, err := repo.Create(ctx, openEntry("e1", "u1", in))
	require.NoError(t, err)

	open, err := repo.FindOpenForUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.True(t, open.ClockIn.Equal(in))

	closed, err := entry.Close(in.Add(8*time.Hour+47*time.Minute), 480)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, closed, attendance.StatusInProgress))

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCompleted, got.Status)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 527, *got.DurationMinutes)
	assert.True(t, got.IsOvertime)
	assert.Equal(t, 47, got.OvertimeMinutes)

	open, err = repo.FindOpenForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestClockEntryRepository_UpdateLosesRace(t *testing.T) {
	ctx := context.Background()
	repo := NewClockEntryRepository(newTestStore(t))
	in := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	entry, err := repo.Create(ctx, openEntry("e1", "u1", in))
	require.NoError(t, err)

	closed, err := entry.Close(in.Add(time.Hour), 480)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, closed, attendance.StatusInProgress))

	err = repo.Update(ctx, closed, attendance.StatusInProgress)
	assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
}

func TestClockEntryRepository_GetByIDNotFound(t *testing.T) {
	repo := NewClockEntryRepository(newTestStore(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, attendance.ErrClockEntryNotFound)
}

func TestClockEntryRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewClockEntryRepository(newTestStore(t))
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		in := day.AddDate(0, 0, i).Add(9 * time.Hour)
		e, err := repo.Create(ctx, openEntry(id, "u1", in))
		require.NoError(t, err)
		if id != "c" {
			closed, err := e.Close(in.Add(8*time.Hour), 480)
			require.NoError(t, err)
			require.NoError(t, repo.Update(ctx, closed, attendance.StatusInProgress))
		}
	}

	entries, err := repo.ListForUser(ctx, "u1", day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID)
	assert.Equal(t, "a", entries[1].ID)

	stale, err := repo.ListOpenStartedBefore(ctx, day.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "c", stale[0].ID)
}

func TestWorkLogRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(newTestStore(t))
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	task, project := "t1", "p1"

	l := worklog.WorkLog{
		ID:         "w1",
		UserID:     "u1",
		TaskID:     &task,
		ProjectID:  &project,
		WorkDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Hours:      decimal.RequireFromString("2.25"),
		IsBillable: true,
		WorkType:   worklog.WorkTypeRegular,
		CreatedBy:  "u1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := repo.Create(ctx, l)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, got.Hours.Equal(l.Hours))
	assert.Equal(t, l.WorkDate, got.WorkDate)
	assert.True(t, got.IsBillable)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, "p1", *got.ProjectID)
	assert.Nil(t, got.Description)

	got.Hours = decimal.RequireFromString("3.5")
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	r := daterange.New(l.WorkDate, l.WorkDate)
	byUser, err := repo.ListForUser(ctx, "u1", r)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "3.5", byUser[0].Hours.String())

	byProject, err := repo.ListForProject(ctx, "p1", r)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	byTask, err := repo.ListForTask(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, byTask, 1)

	require.NoError(t, repo.Delete(ctx, "w1"))
	assert.ErrorIs(t, repo.Delete(ctx, "w1"), worklog.ErrWorkLogNotFound)
	_, err = repo.FindByID(ctx, "w1")
	assert.ErrorIs(t, err, worklog.ErrWorkLogNotFound)
}

func TestPolicyRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewPolicyRepository(s)

	o, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, o)

	expected, minutes := "08:30", 420
	require.NoError(t, s.PutPolicyOverride(ctx, policy.Override{
		UserID:               "u1",
		ExpectedClockIn:      &expected,
		StandardDailyMinutes: &minutes,
	}))

	o, err = repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "08:30", *o.ExpectedClockIn)
	assert.Equal(t, 420, *o.StandardDailyMinutes)
	assert.Nil(t, o.Timezone)
}

func TestRegistryRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	reg := NewRegistryRepository(s)

	require.NoError(t, s.PutUser(ctx, "u1", "Alice"))
	require.NoError(t, s.PutProject(ctx, "p1", "Apollo"))
	require.NoError(t, s.PutTask(ctx, "t1", "p1", "Design"))

	projects, err := reg.ProjectNames(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "Apollo"}, projects)

	tasks, err := reg.TaskTitles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	users, err := reg.UserNames(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", users["u1"])

	projectID, err := reg.TaskProject(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "p1", projectID)

	_, err = reg.TaskProject(ctx, "t9")
	assert.ErrorIs(t, err, registry.ErrTaskNotFound)
}

func TestAuditRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewAuditRepository(s)
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	events := []audit.Event{
		{ID: "a1", Type: audit.TypeClockIn, UserID: "u1", ActorID: "u1", EntityType: "clock_entry", EntityID: "e1",
			Data: map[string]any{"late_minutes": 0}, OccurredAt: at},
		{ID: "a2", Type: audit.TypeSessionStale, UserID: "u1", EntityType: "clock_entry", EntityID: "e1", OccurredAt: at.Add(time.Hour)},
	}
	require.NoError(t, repo.CreateBatch(ctx, events))
	// replays are ignored
	require.NoError(t, repo.CreateBatch(ctx, events[:1]))

	got, err := s.ListAuditEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, audit.TypeClockIn, got[0].Type)
	assert.Equal(t, float64(0), got[0].Data["late_minutes"])
	assert.Empty(t, got[1].ActorID)
	assert.Nil(t, got[1].Data)
}
