package audithandler

import (
	"net/http"

	"herohub/internal/domain/audit"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
	"herohub/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditSvc *audit.Service) *Handler {
	return &Handler{Audit: auditSvc}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 500)

	filter := audit.Filter{
		Action:  r.URL.Query().Get("action"),
		Entity:  r.URL.Query().Get("entity"),
		ActorID: r.URL.Query().Get("actorId"),
	}
	total, err := h.Audit.Count(r.Context(), user.TenantID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to count audit entries", reqID)
		return
	}
	entries, err := h.Audit.List(r.Context(), user.TenantID, filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list audit entries", reqID)
		return
	}
	api.Success(w, map[string]any{"total": total, "entries": entries}, reqID)
}
