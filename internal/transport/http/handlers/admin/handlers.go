package adminhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"herohub/internal/domain/audit"
	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
	"herohub/internal/navigation"
	"herohub/internal/session"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
	"herohub/internal/transport/http/shared"
)

type Handler struct {
	Authz *authz.Service
	Audit *audit.Service
}

func NewHandler(authzSvc *authz.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Authz: authzSvc, Audit: auditSvc}
}

type permissionRequest struct {
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
	CanDelete bool `json:"can_delete"`
}

type roleChangeRequest struct {
	Role string `json:"role"`
}

// HandleRolePermissions returns a role's effective permission set, defaults
// merged with tenant overrides.
func (h *Handler) HandleRolePermissions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	role := authz.ParseRole(chi.URLParam(r, "role"))
	if role == authz.RoleUnknown {
		api.Fail(w, http.StatusBadRequest, "unknown_role", "unknown role", reqID)
		return
	}
	perms, err := h.Authz.Resolve(r.Context(), user.TenantID, role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resolve_failed", "failed to resolve permissions", reqID)
		return
	}
	api.Success(w, map[string]any{"role": role, "permissions": perms}, reqID)
}

func (h *Handler) HandleSetPermission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	role := authz.ParseRole(chi.URLParam(r, "role"))
	module := chi.URLParam(r, "module")
	if role == authz.RoleUnknown || !authz.KnownModule(module) {
		api.Fail(w, http.StatusBadRequest, "invalid_target", "unknown role or module", reqID)
		return
	}

	var in permissionRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	perm := authz.ModulePermission{CanRead: in.CanRead, CanWrite: in.CanWrite, CanDelete: in.CanDelete}
	if err := h.Authz.SetOverride(r.Context(), user.TenantID, role, module, perm); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to store permission", reqID)
		return
	}
	h.record(r, user, audit.ActionGrantChanged, module, map[string]any{"role": role, "permission": perm})
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleClearPermission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	role := authz.ParseRole(chi.URLParam(r, "role"))
	module := chi.URLParam(r, "module")
	if role == authz.RoleUnknown || !authz.KnownModule(module) {
		api.Fail(w, http.StatusBadRequest, "invalid_target", "unknown role or module", reqID)
		return
	}
	if err := h.Authz.ClearOverride(r.Context(), user.TenantID, role, module); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to clear permission", reqID)
		return
	}
	h.record(r, user, audit.ActionGrantCleared, module, map[string]any{"role": role})
	api.Success(w, map[string]string{"status": "cleared"}, reqID)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	page := shared.ParsePagination(r, 50, 200)
	users, err := h.Authz.ListUsers(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", reqID)
		return
	}
	api.Success(w, users, reqID)
}

func (h *Handler) HandleChangeUserRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in roleChangeRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	role := authz.ParseRole(in.Role)
	if role == authz.RoleUnknown {
		api.Fail(w, http.StatusBadRequest, "unknown_role", "unknown role", reqID)
		return
	}

	targetID := chi.URLParam(r, "id")
	err := h.Authz.ChangeUserRole(r.Context(), user.TenantID, targetID, role)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to change role", reqID)
		return
	}
	h.record(r, user, audit.ActionRoleChanged, targetID, map[string]any{"role": role})
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

// HandleMyMenu returns the navigation entries the caller's role may see, in
// menu order. Available to every authenticated user.
func (h *Handler) HandleMyMenu(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	ident := &session.Identity{Role: authz.ParseRole(user.Role)}
	entries := navigation.VisibleMenuEntries(ident, navigation.DefaultMenu)
	api.Success(w, entries, reqID)
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityID string, detail any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, "admin", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, detail); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
