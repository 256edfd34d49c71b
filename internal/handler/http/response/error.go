package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/stats"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrUserIDRequired):
		BadRequest(w, "User ID is required", nil)

	// Ranges
	case errors.Is(err, daterange.ErrRangeTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, daterange.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrClockEntryNotFound):
		NotFound(w, "Attendance entry not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open attendance session")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, "Attendance entry is not awaiting review")
	case errors.Is(err, attendance.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrForbidden):
		Forbidden(w, err.Error())

	// Policy errors surface when a request overrides the expected time
	case errors.Is(err, policy.ErrInvalidTimeOfDay):
		ValidationError(w, map[string]string{"expected_clock_in": err.Error()})

	// Work log domain errors
	case errors.Is(err, worklog.ErrWorkLogNotFound):
		NotFound(w, "Work log not found")
	case errors.Is(err, worklog.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, worklog.ErrInvalidWorkLog):
		BadRequest(w, err.Error(), nil)

	// Stats
	case errors.Is(err, stats.ErrProjectIDRequired):
		BadRequest(w, "Project ID is required", nil)
	case errors.Is(err, stats.ErrForbidden):
		Forbidden(w, err.Error())

	// Storage
	case errors.Is(err, database.ErrStorage):
		slog.Error("Storage failure", "error", err)
		ServiceUnavailable(w, "Storage temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
