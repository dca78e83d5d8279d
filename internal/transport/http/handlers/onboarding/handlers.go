package onboardinghandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herohub/internal/domain/directory"
	"herohub/internal/domain/onboarding"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
	"herohub/internal/transport/http/shared"
)

type Handler struct {
	Onboarding *onboarding.Service
	Directory  *directory.Service
}

func NewHandler(onboardingSvc *onboarding.Service, directorySvc *directory.Service) *Handler {
	return &Handler{Onboarding: onboardingSvc, Directory: directorySvc}
}

type startRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	TemplateID string `json:"templateId" validate:"required,uuid"`
	StartDate  string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

type taskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending done skipped"`
}

func (h *Handler) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in onboarding.TemplateInput
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}
	id, err := h.Onboarding.CreateTemplate(r.Context(), user.TenantID, in)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create template", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	templates, err := h.Onboarding.ListTemplates(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list templates", reqID)
		return
	}
	api.Success(w, templates, reqID)
}

func (h *Handler) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	tpl, err := h.Onboarding.GetTemplate(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if errors.Is(err, onboarding.ErrTemplateNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "template not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load template", reqID)
		return
	}
	api.Success(w, tpl, reqID)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in startRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}

	start, err := shared.ParseDate(in.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", reqID)
		return
	}
	if start.IsZero() {
		emp, err := h.Directory.Get(r.Context(), user.TenantID, in.EmployeeID)
		if err != nil || emp.StartDate == nil {
			api.Fail(w, http.StatusBadRequest, "missing_start_date", "employee has no start date; provide one", reqID)
			return
		}
		start = *emp.StartDate
	}

	err = h.Onboarding.Start(r.Context(), user.TenantID, in.EmployeeID, in.TemplateID, start)
	if errors.Is(err, onboarding.ErrTemplateNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "template not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "start_failed", "failed to start onboarding", reqID)
		return
	}
	api.Created(w, map[string]string{"status": "started"}, reqID)
}

func (h *Handler) HandleEmployeeTasks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	tasks, err := h.Onboarding.TasksForEmployee(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list tasks", reqID)
		return
	}
	api.Success(w, tasks, reqID)
}

func (h *Handler) HandleMyTasks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	tasks, err := h.Onboarding.TasksForEmployee(r.Context(), user.TenantID, emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list tasks", reqID)
		return
	}
	api.Success(w, tasks, reqID)
}

func (h *Handler) HandleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in taskStatusRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}

	err := h.Onboarding.SetTaskStatus(r.Context(), user.TenantID, chi.URLParam(r, "id"), in.Status)
	if errors.Is(err, onboarding.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update task", reqID)
		return
	}
	api.Success(w, map[string]string{"status": in.Status}, reqID)
}
