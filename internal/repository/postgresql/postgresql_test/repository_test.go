package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestClockEntryRepository_ConcurrentCreateKeepsOneOpen(t *testing.T) {
	ctx := context.Background()
	repo := postgresql.NewClockEntryRepository(newTestDB(t))
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		clashes int
	)
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.Create(ctx, openEntry(id, "u1", at))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn) {
				clashes++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 3, clashes)
}

func TestClockEntryRepository_CloseAndReview(t *testing.T) {
	ctx := context.Background()
	repo := postgresql.NewClockEntryRepository(newTestDB(t))
	in := time.Date(2024, 1, 15, 9, 7, 0, 0, time.UTC)

	entry, err := repo.Create(ctx, openEntry("e1", "u1", in))
	require.NoError(t, err)

	closed, err := entry.Close(time.Date(2024, 1, 15, 17, 54, 0, 0, time.UTC), 480)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, closed, attendance.StatusInProgress))
	assert.ErrorIs(t, repo.Update(ctx, closed, attendance.StatusInProgress), attendance.ErrInvalidTransition)

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 527, *got.DurationMinutes)
	assert.Equal(t, 47, got.OvertimeMinutes)

	open, err := repo.FindOpenForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, open)

	entries, err := repo.ListForUser(ctx, "u1", in.Truncate(24*time.Hour), in.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, attendance.ErrClockEntryNotFound)
}

func TestWorkLogRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := postgresql.NewWorkLogRepository(newTestDB(t))
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	project := "p1"

	_, err := repo.Create(ctx, worklog.WorkLog{
		ID:        "w1",
		UserID:    "u1",
		ProjectID: &project,
		WorkDate:  day,
		Hours:     decimal.RequireFromString("1.75"),
		WorkType:  worklog.WorkTypeRegular,
		CreatedBy: "u1",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "1.75", got.Hours.String())
	assert.True(t, got.WorkDate.Equal(day))

	r := daterange.New(day, day)
	byProject, err := repo.ListForProject(ctx, "p1", r)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	require.NoError(t, repo.Delete(ctx, "w1"))
	_, err = repo.FindByID(ctx, "w1")
	assert.ErrorIs(t, err, worklog.ErrWorkLogNotFound)
}

func TestRegistryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	reg := postgresql.NewRegistryRepository(db)

	_, err := db.Exec(ctx, `INSERT INTO projects (id, name) VALUES ('p1', 'Apollo')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO tasks (id, project_id, title) VALUES ('t1', 'p1', 'Design')`)
	require.NoError(t, err)

	names, err := reg.ProjectNames(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "Apollo"}, names)

	projectID, err := reg.TaskProject(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "p1", projectID)

	_, err = reg.TaskProject(ctx, "t2")
	assert.ErrorIs(t, err, registry.ErrTaskNotFound)
}

func TestPolicyAndAuditRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	o, err := postgresql.NewPolicyRepository(db).GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, o)

	repo := postgresql.NewAuditRepository(db)
	event := audit.Event{
		ID:         "ev1",
		Type:       audit.TypeClockIn,
		UserID:     "u1",
		EntityType: "clock_entry",
		EntityID:   "e1",
		Data:       map[string]any{"late_minutes": 7},
		OccurredAt: time.Date(2024, 1, 15, 9, 7, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateBatch(ctx, []audit.Event{event}))
	require.NoError(t, repo.CreateBatch(ctx, []audit.Event{event}), "replayed batches are ignored")

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT count(*) FROM audit_events`).Scan(&count))
	assert.Equal(t, 1, count)
}
