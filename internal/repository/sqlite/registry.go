package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/registry"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
)

type registryRepository struct {
	s *Store
}

func NewRegistryRepository(s *Store) registry.Registry {
	return &registryRepository{s: s}
}

func (r *registryRepository) lookup(ctx context.Context, op, table, column string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, %s FROM %s WHERE id IN (%s)`, column, table, placeholders)
	rows, err := r.s.db.QueryContext(ctx, query, args...)
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
	return r.lookup(ctx, "resolve project names", "projects", "name", ids)
}

// TaskTitles implements registry.Registry.
func (r *registryRepository) TaskTitles(ctx context.Context, ids []string) (map[string]string, error) {
	return r.lookup(ctx, "resolve task titles", "tasks", "title", ids)
}

// UserNames implements registry.Registry.
func (r *registryRepository) UserNames(ctx context.Context, ids []string) (map[string]string, error) {
	return r.lookup(ctx, "resolve user names", "users", "name", ids)
}

// TaskProject implements registry.Registry.
func (r *registryRepository) TaskProject(ctx context.Context, taskID string) (string, error) {
	var projectID string
	err := r.s.db.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, taskID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("task %s: %w", taskID, registry.ErrTaskNotFound)
		}
		return "", database.StorageError("resolve task project", err)
	}
	return projectID, nil
}

// PutUser, PutProject and PutTask seed the directory tables for standalone
// deployments and tests.
func (s *Store) PutUser(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
	if err != nil {
		return database.StorageError("put user", err)
	}
	return nil
}

func (s *Store) PutProject(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
	if err != nil {
		return database.StorageError("put project", err)
	}
	return nil
}

func (s *Store) PutTask(ctx context.Context, id, projectID, title string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET project_id = excluded.project_id, title = excluded.title`,
		id, projectID, title)
	if err != nil {
		return database.StorageError("put task", err)
	}
	return nil
}
