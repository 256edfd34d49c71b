package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu      sync.Mutex
	events  []audit.Event
	batches int
	fail    bool
	block   chan struct{}
}

func (r *memoryRepo) CreateBatch(ctx context.Context, events []audit.Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	if r.fail {
		return errors.New("audit store unavailable")
	}
	r.events = append(r.events, events...)
	return nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestEmitter_PersistsOnClose(t *testing.T) {
	repo := &memoryRepo{}
	e := NewAuditEmitter(repo, nil, Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1})

	for i := 0; i < 25; i++ {
		e.Emit(context.Background(), audit.Event{Type: audit.TypeClockIn, UserID: "u-1"})
	}
	e.Close()

	assert.Equal(t, 25, repo.count())
	for _, ev := range repo.events {
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.OccurredAt.IsZero())
	}
}

func TestEmitter_FlushesOnInterval(t *testing.T) {
	repo := &memoryRepo{}
	e := NewAuditEmitter(repo, nil, Config{BatchSize: 100, FlushInterval: 10 * time.Millisecond, WorkerCount: 1})
	defer e.Close()

	e.Emit(context.Background(), audit.Event{Type: audit.TypeWorkLogCreated, UserID: "u-1"})

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestEmitter_DropsWhenQueueFull(t *testing.T) {
	repo := &memoryRepo{block: make(chan struct{})}
	e := NewAuditEmitter(repo, nil, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			e.Emit(context.Background(), audit.Event{Type: audit.TypeClockOut, UserID: "u-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a stuck store")
	}
	assert.Greater(t, e.Dropped(), int64(0))

	close(repo.block)
	e.Close()
}

func TestEmitter_StoreFailureStillPublishes(t *testing.T) {
	repo := &memoryRepo{fail: true}
	hub := sse.NewHub()
	ch, cleanup := hub.Subscribe("u-1")
	defer cleanup()

	e := NewAuditEmitter(repo, hub, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1})
	e.Emit(context.Background(), audit.Event{Type: audit.TypeClockIn, UserID: "u-1", EntityID: "e-1"})

	select {
	case ev := <-ch:
		assert.Equal(t, string(audit.TypeClockIn), ev.Event)
		resp, ok := ev.Data.(audit.EventResponse)
		require.True(t, ok)
		assert.Equal(t, "e-1", resp.EntityID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
	e.Close()
}

func TestEmitter_EmitAfterCloseIsDropped(t *testing.T) {
	repo := &memoryRepo{}
	e := NewAuditEmitter(repo, nil, Config{WorkerCount: 1})
	e.Close()

	e.Emit(context.Background(), audit.Event{Type: audit.TypeClockIn, UserID: "u-1"})

	assert.Equal(t, int64(1), e.Dropped())
	assert.Equal(t, 0, repo.count())
}

func TestEmitter_EmitRacingCloseIsPersistedOrCounted(t *testing.T) {
	for round := 0; round < 20; round++ {
		repo := &memoryRepo{}
		e := NewAuditEmitter(repo, nil, Config{BatchSize: 5, FlushInterval: time.Hour, WorkerCount: 2, QueueSize: 1000})

		const emitters, perEmitter = 4, 50
		var wg sync.WaitGroup
		for i := 0; i < emitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perEmitter; j++ {
					e.Emit(context.Background(), audit.Event{Type: audit.TypeWorkLogUpdated, UserID: "u-1"})
				}
			}()
		}
		e.Close()
		wg.Wait()
		e.Close()

		assert.Equal(t, emitters*perEmitter, repo.count()+int(e.Dropped()), "round %d", round)
	}
}
