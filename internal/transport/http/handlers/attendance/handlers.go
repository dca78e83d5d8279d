package attendancehandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"herohub/internal/domain/attendance"
	"herohub/internal/domain/directory"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
)

type Handler struct {
	Attendance *attendance.Service
	Directory  *directory.Service
}

func NewHandler(attendanceSvc *attendance.Service, directorySvc *directory.Service) *Handler {
	return &Handler{Attendance: attendanceSvc, Directory: directorySvc}
}

func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	id, err := h.Attendance.CheckIn(r.Context(), user.TenantID, emp.ID, r.URL.Query().Get("source"))
	if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
		api.Fail(w, http.StatusConflict, "already_checked_in", "already checked in today", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_in_failed", "failed to record check-in", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	err = h.Attendance.CheckOut(r.Context(), user.TenantID, emp.ID)
	if errors.Is(err, attendance.ErrNotCheckedIn) {
		api.Fail(w, http.StatusConflict, "not_checked_in", "no open check-in today", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "check_out_failed", "failed to record check-out", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "checked_out"}, reqID)
}

func (h *Handler) HandleMySummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	h.writeSummary(w, r, user.TenantID, emp.ID, reqID)
}

func (h *Handler) HandleEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	h.writeSummary(w, r, user.TenantID, chi.URLParam(r, "id"), reqID)
}

func (h *Handler) writeSummary(w http.ResponseWriter, r *http.Request, tenantID, employeeID, reqID string) {
	year, month := parsePeriod(r)
	summary, err := h.Attendance.MonthlySummary(r.Context(), tenantID, employeeID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build monthly summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

// HandleExportPDF streams the monthly calendar as a PDF attachment.
func (h *Handler) HandleExportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	year, month := parsePeriod(r)
	summary, err := h.Attendance.MonthlySummary(r.Context(), user.TenantID, emp.ID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build monthly summary", reqID)
		return
	}

	name := emp.FirstName + " " + emp.LastName
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance-`+summary.Month.String()+`-`+strconv.Itoa(summary.Year)+`.pdf"`)
	if err := renderSummaryPDF(w, name, summary); err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render pdf", reqID)
	}
}

func parsePeriod(r *http.Request) (int, time.Month) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 2000 && v <= 2100 {
			year = v
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 12 {
			month = time.Month(v)
		}
	}
	return year, month
}
