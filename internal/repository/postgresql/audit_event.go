package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// CreateBatch inserts all events in one statement
func (r *auditRepository) CreateBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(events))
	valueArgs := make([]any, 0, len(events)*8)

	for i, e := range events {
		var data []byte
		if e.Data != nil {
			var err error
			data, err = json.Marshal(e.Data)
			if err != nil {
				return fmt.Errorf("failed to marshal audit data: %w", err)
			}
		}

		var actorID *string
		if e.ActorID != "" {
			actorID = &e.ActorID
		}

		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		valueArgs = append(valueArgs,
			e.ID,
			string(e.Type),
			e.UserID,
			actorID,
			e.EntityType,
			e.EntityID,
			data,
			e.OccurredAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_events (id, type, user_id, actor_id, entity_type, entity_id, data, occurred_at)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return database.StorageError("insert audit events", err)
	}

	return nil
}
