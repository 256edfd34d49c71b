package worklog

import "errors"

var (
	ErrInvalidWorkLog  = errors.New("invalid work log")
	ErrWorkLogNotFound = errors.New("work log not found")
	ErrForbidden       = errors.New("not allowed to modify this work log")
)
