package policy

import "errors"

var (
	ErrInvalidTimeOfDay    = errors.New("time of day must be in HH:MM format")
	ErrInvalidDailyMinutes = errors.New("standard daily minutes must be between 1 and 1440")
	ErrUnknownTimezone     = errors.New("unknown timezone")
)
