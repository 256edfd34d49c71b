package stats

import "errors"

var (
	ErrProjectIDRequired = errors.New("project ID is required")
	ErrForbidden         = errors.New("not allowed to view these statistics")
)
