package documentshandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"herohub/internal/domain/audit"
	"herohub/internal/domain/directory"
	"herohub/internal/domain/documents"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
)

type Handler struct {
	Documents *documents.Service
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(docsSvc *documents.Service, directorySvc *directory.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Documents: docsSvc, Directory: directorySvc, Audit: auditSvc}
}

// HandleUpload accepts multipart form uploads with a "file" part plus title,
// category and employeeId fields.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := r.ParseMultipartForm(documents.MaxDocumentBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", reqID)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file part is required", reqID)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, documents.MaxDocumentBytes+1))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "read_failed", "failed to read file", reqID)
		return
	}

	in := documents.UploadInput{
		EmployeeID:  r.FormValue("employeeId"),
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	if in.Title == "" {
		in.Title = header.Filename
	}

	id, err := h.Documents.Upload(r.Context(), user.TenantID, user.UserID, in)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "upload_rejected", err.Error(), reqID)
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionDocumentUpload, id, map[string]string{"title": in.Title})
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	doc, content, err := h.Documents.Download(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if errors.Is(err, documents.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "download_failed", "failed to load document", reqID)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	if _, err := w.Write(content); err != nil {
		slog.Warn("document write failed", "docId", doc.ID, "err", err)
	}
}

// HandleMyDocuments lists documents attached to the caller's employee record.
func (h *Handler) HandleMyDocuments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	docs, err := h.Documents.ListForEmployee(r.Context(), user.TenantID, emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list documents", reqID)
		return
	}
	api.Success(w, docs, reqID)
}

func (h *Handler) HandleListForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	docs, err := h.Documents.ListForEmployee(r.Context(), user.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list documents", reqID)
		return
	}
	api.Success(w, docs, reqID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	docID := chi.URLParam(r, "id")
	err := h.Documents.Delete(r.Context(), user.TenantID, docID)
	if errors.Is(err, documents.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete document", reqID)
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionDocumentDelete, docID, nil)
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) record(r *http.Request, tenantID, actorID, action, entityID string, detail any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), tenantID, actorID, action, "document", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, detail); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
