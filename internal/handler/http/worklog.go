package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worktime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WorkLogHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type workLogHandlerImpl struct {
	workLogService worklog.WorkLogService
}

func NewWorkLogHandler(workLogService worklog.WorkLogService) WorkLogHandler {
	return &workLogHandlerImpl{workLogService: workLogService}
}

// Create implements WorkLogHandler.
func (h *workLogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req worklog.CreateWorkLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workLogService.Create(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work log created successfully", result)
}

// List implements WorkLogHandler.
func (h *workLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	filter := worklog.ListFilter{
		UserID:    q.Get("user_id"),
		TaskID:    q.Get("task_id"),
		ProjectID: q.Get("project_id"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	result, err := h.workLogService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		TotalItems: result.TotalCount,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
	})
}

// Get implements WorkLogHandler.
func (h *workLogHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.workLogService.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements WorkLogHandler.
func (h *workLogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req worklog.UpdateWorkLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.workLogService.Update(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work log updated successfully", result)
}

// Delete implements WorkLogHandler.
func (h *workLogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.workLogService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work log deleted successfully", nil)
}
