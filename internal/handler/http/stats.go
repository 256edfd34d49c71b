package http

import (
	"net/http"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/stats"
	"github.com/cmlabs-hris/worktime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type StatsHandler interface {
	UserTime(w http.ResponseWriter, r *http.Request)
	ProjectTime(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
	Attendance(w http.ResponseWriter, r *http.Request)
}

type statsHandlerImpl struct {
	statsService stats.StatsService
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandlerImpl{statsService: statsService}
}

func rangeQuery(r *http.Request) stats.RangeQuery {
	return stats.RangeQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
}

// UserTime handles GET /stats/users/{userID}
func (h *statsHandlerImpl) UserTime(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.statsService.GetUserTimeStats(r.Context(), caller, chi.URLParam(r, "userID"), rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ProjectTime handles GET /stats/projects/{projectID}
func (h *statsHandlerImpl) ProjectTime(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.statsService.GetProjectTimeStats(r.Context(), caller, chi.URLParam(r, "projectID"), rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DailySummary handles GET /stats/users/{userID}/daily
func (h *statsHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.statsService.GetDailyWorkSummary(r.Context(), caller, chi.URLParam(r, "userID"), rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Attendance handles GET /attendance/stats; user_id defaults to the caller.
func (h *statsHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = caller.UserID
	}

	result, err := h.statsService.GetAttendanceStats(r.Context(), caller, userID, rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
