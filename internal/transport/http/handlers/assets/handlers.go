package assetshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herohub/internal/domain/assets"
	"herohub/internal/domain/audit"
	"herohub/internal/domain/directory"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
)

type Handler struct {
	Assets    *assets.Service
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(assetsSvc *assets.Service, directorySvc *directory.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Assets: assetsSvc, Directory: directorySvc, Audit: auditSvc}
}

type assignRequest struct {
	EmployeeID string `json:"employeeId"`
	Note       string `json:"note"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	items, err := h.Assets.List(r.Context(), user.TenantID, r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list assets", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	item, err := h.Assets.Get(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if errors.Is(err, assets.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "asset not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load asset", reqID)
		return
	}
	api.Success(w, item, reqID)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in assets.AssetInput
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	id, err := h.Assets.Create(r.Context(), user.TenantID, in)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "create_failed", err.Error(), reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in assignRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	assetID := chi.URLParam(r, "id")
	id, err := h.Assets.Assign(r.Context(), user.TenantID, assetID, in.EmployeeID, in.Note)
	if errors.Is(err, assets.ErrAlreadyAssigned) {
		api.Fail(w, http.StatusConflict, "already_assigned", "asset is not available", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "assign_failed", "failed to assign asset", reqID)
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionAssetAssigned, assetID, map[string]string{"employeeId": in.EmployeeID})
	api.Created(w, map[string]string{"assignmentId": id}, reqID)
}

func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	assetID := chi.URLParam(r, "id")
	err := h.Assets.Return(r.Context(), user.TenantID, assetID)
	if errors.Is(err, assets.ErrNotAssigned) {
		api.Fail(w, http.StatusConflict, "not_assigned", "asset has no open assignment", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "return_failed", "failed to return asset", reqID)
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionAssetReturned, assetID, nil)
	api.Success(w, map[string]string{"status": "returned"}, reqID)
}

func (h *Handler) HandleRetire(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := h.Assets.Retire(r.Context(), user.TenantID, chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusConflict, "retire_failed", "asset must be available to retire", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "retired"}, reqID)
}

// HandleMyAssets lists equipment currently or previously assigned to the
// caller's own employee record.
func (h *Handler) HandleMyAssets(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	assignments, err := h.Assets.AssignmentsForEmployee(r.Context(), user.TenantID, emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list assignments", reqID)
		return
	}
	api.Success(w, assignments, reqID)
}

func (h *Handler) record(r *http.Request, tenantID, actorID, action, entityID string, detail any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), tenantID, actorID, action, "asset", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, detail); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
