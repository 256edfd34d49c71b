// Package registry is the read side of the project, task and user directory
// owned by other services. Aggregations join against it for display names.
package registry

import (
	"context"
	"errors"
)

var ErrTaskNotFound = errors.New("task not found")

// Registry resolves ids to display names. Unknown ids are omitted from the
// returned maps rather than reported as errors.
type Registry interface {
	ProjectNames(ctx context.Context, ids []string) (map[string]string, error)
	TaskTitles(ctx context.Context, ids []string) (map[string]string, error)
	UserNames(ctx context.Context, ids []string) (map[string]string, error)

	// TaskProject returns the project owning taskID, or ErrTaskNotFound
	TaskProject(ctx context.Context, taskID string) (string, error)
}
