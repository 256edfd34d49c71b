package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type registryRepository struct {
	db *database.DB
}

func NewRegistryRepository(db *database.DB) registry.Registry {
	return &registryRepository{db: db}
}

func (r *registryRepository) lookup(ctx context.Context, op, query string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, database.StorageError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, database.StorageError(op, err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, database.StorageError(op, err)
	}
	return names, nil
}

// ProjectNames implements registry.Registry.
func (r *registryRepository) ProjectNames(ctx context.Context, ids []string) (map[string]string, error) {
	return r.lookup(ctx, "resolve project names", `SELECT id, name FROM projects WHERE id = ANY($1)`, ids)
}

// TaskTitles implements registry.Registry.
func (r *registryRepository) TaskTitles(ctx context.Context, ids []string) (map[string]string, error) {
	return r.lookup(ctx, "resolve task titles", `SELECT id, title FROM tasks WHERE id = ANY($1)`, ids)
}

// UserNames implements registry.Registry.
func (r *registryRepository) UserNames(ctx context.Context, ids []string) (map[string]string, error) {
	return r.lookup(ctx, "resolve user names", `SELECT id, name FROM users WHERE id = ANY($1)`, ids)
}

// TaskProject implements registry.Registry.
func (r *registryRepository) TaskProject(ctx context.Context, taskID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var projectID string
	err := q.QueryRow(ctx, `SELECT project_id FROM tasks WHERE id = $1`, taskID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("task %s: %w", taskID, registry.ErrTaskNotFound)
		}
		return "", database.StorageError("resolve task project", err)
	}
	return projectID, nil
}
