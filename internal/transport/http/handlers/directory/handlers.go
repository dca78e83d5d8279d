package directoryhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"herohub/internal/domain/directory"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
	"herohub/internal/transport/http/shared"
)

type Handler struct {
	Directory *directory.Service
}

func NewHandler(svc *directory.Service) *Handler {
	return &Handler{Directory: svc}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	employees, err := h.Directory.List(r.Context(), user.TenantID, r.URL.Query().Get("q"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.Get(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

// HandleMyProfile serves the caller's own employee record without requiring
// directory read permission.
func (h *Handler) HandleMyProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load profile", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in directory.EmployeeInput
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}

	id, err := h.Directory.Create(r.Context(), user.TenantID, in)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create employee", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in directory.EmployeeInput
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}

	if err := h.Directory.Update(r.Context(), user.TenantID, chi.URLParam(r, "id"), in); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := h.Directory.Deactivate(r.Context(), user.TenantID, chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "deactivate_failed", "failed to deactivate employee", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}
