package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
)

type auditRepository struct {
	s *Store
}

func NewAuditRepository(s *Store) audit.Repository {
	return &auditRepository{s: s}
}

// CreateBatch inserts all events in one transaction
func (r *auditRepository) CreateBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return database.StorageError("begin audit batch", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO audit_events (id, type, user_id, actor_id, entity_type, entity_id, data, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return database.StorageError("prepare audit insert", err)
	}
	defer stmt.Close()

	for _, e := range events {
		var data sql.NullString
		if e.Data != nil {
			b, err := json.Marshal(e.Data)
			if err != nil {
				return fmt.Errorf("failed to marshal audit data: %w", err)
			}
			data = sql.NullString{String: string(b), Valid: true}
		}
		actorID := sql.NullString{String: e.ActorID, Valid: e.ActorID != ""}

		if _, err := stmt.ExecContext(ctx,
			e.ID, string(e.Type), e.UserID, actorID, e.EntityType, e.EntityID, data, formatTime(e.OccurredAt),
		); err != nil {
			return database.StorageError("insert audit event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return database.StorageError("commit audit batch", err)
	}
	return nil
}

// ListAuditEvents returns a user's events, oldest first.
func (s *Store) ListAuditEvents(ctx context.Context, userID string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, user_id, actor_id, entity_type, entity_id, data, occurred_at
		 FROM audit_events WHERE user_id = ? ORDER BY occurred_at ASC, id ASC`, userID)
	if err != nil {
		return nil, database.StorageError("list audit events", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e          audit.Event
			eventType  string
			actorID    sql.NullString
			data       sql.NullString
			occurredAt string
		)
		if err := rows.Scan(&e.ID, &eventType, &e.UserID, &actorID, &e.EntityType, &e.EntityID, &data, &occurredAt); err != nil {
			return nil, database.StorageError("scan audit event", err)
		}
		e.Type = audit.EventType(eventType)
		e.ActorID = actorID.String
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit data: %w", err)
			}
		}
		if e.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, database.StorageError("scan audit event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
