package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds audit emitter configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// Emitter queues audit events and persists them in batches from background
// workers. Emit never blocks; a full queue drops the event.
type Emitter struct {
	repo   audit.Repository
	hub    *sse.Hub
	config Config

	queue   chan audit.Event
	wg      sync.WaitGroup
	stopCh  chan struct{}
	dropped int64
	mu      sync.Mutex

	// closeMu orders enqueues before the close; Emit holds it shared.
	closeMu sync.RWMutex
	closed  bool
}

// NewAuditEmitter starts cfg.WorkerCount workers. hub may be nil.
func NewAuditEmitter(repo audit.Repository, hub *sse.Hub, cfg Config) *Emitter {
	// Set defaults
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	e := &Emitter{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan audit.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}

	slog.Info("Audit emitter started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval)

	return e
}

// Emit implements audit.Emitter.
func (e *Emitter) Emit(ctx context.Context, event audit.Event) {
	if event.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		event.ID = id.String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	e.closeMu.RLock()
	defer e.closeMu.RUnlock()
	if e.closed {
		e.drop(event, "emitter stopped")
		return
	}

	select {
	case e.queue <- event:
	default:
		e.drop(event, "queue full")
	}
}

func (e *Emitter) drop(event audit.Event, reason string) {
	e.mu.Lock()
	e.dropped++
	e.mu.Unlock()
	slog.Warn("Audit event dropped",
		"reason", reason,
		"type", event.Type,
		"user_id", event.UserID,
		"entity_id", event.EntityID)
}

// Dropped returns how many events were discarded since start.
func (e *Emitter) Dropped() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Close stops the workers after flushing what is already queued. Events
// emitted after Close are dropped and counted.
func (e *Emitter) Close() {
	e.closeMu.Lock()
	if !e.closed {
		e.closed = true
		close(e.stopCh)
	}
	e.closeMu.Unlock()
	e.wg.Wait()
	slog.Info("Audit emitter stopped", "dropped", e.Dropped())
}

func (e *Emitter) worker(id int) {
	defer e.wg.Done()

	batch := make([]audit.Event, 0, e.config.BatchSize)
	ticker := time.NewTicker(e.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("Audit worker failed to persist batch", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("Audit worker persisted batch", "worker", id, "count", len(batch))
		}

		// Live subscribers get the event even if the store is down
		if e.hub != nil {
			for _, ev := range batch {
				e.hub.Publish(ev.UserID, sse.Event{
					UserID: ev.UserID,
					Event:  string(ev.Type),
					Data:   audit.NewEventResponse(ev),
				})
			}
		}

		batch = make([]audit.Event, 0, e.config.BatchSize)
	}

	for {
		select {
		case ev := <-e.queue:
			batch = append(batch, ev)
			if len(batch) >= e.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-e.stopCh:
			// drain whatever is left without blocking
			for {
				select {
				case ev := <-e.queue:
					batch = append(batch, ev)
					if len(batch) >= e.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
