package leavehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"herohub/internal/domain/directory"
	"herohub/internal/domain/leave"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
	"herohub/internal/transport/http/shared"
)

type Handler struct {
	Leave     *leave.Service
	Directory *directory.Service
}

func NewHandler(leaveSvc *leave.Service, directorySvc *directory.Service) *Handler {
	return &Handler{Leave: leaveSvc, Directory: directorySvc}
}

type decisionRequest struct {
	Note string `json:"note"`
}

type createTypeRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Code   string `json:"code" validate:"required,max=20"`
	IsPaid bool   `json:"isPaid"`
}

func (h *Handler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	types, err := h.Leave.ListTypes(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave types", reqID)
		return
	}
	api.Success(w, types, reqID)
}

func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in createTypeRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}
	id, err := h.Leave.CreateType(r.Context(), user.TenantID, in.Name, in.Code, in.IsPaid)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create leave type", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	requests, err := h.Leave.ListRequests(r.Context(), user.TenantID, r.URL.Query().Get("employeeId"), r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) HandleMyRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	requests, err := h.Leave.ListRequests(r.Context(), user.TenantID, emp.ID, r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in leave.RequestInput
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}

	request, err := h.Leave.Submit(r.Context(), user.TenantID, emp.ID, in)
	if errors.Is(err, leave.ErrInsufficientBalance) {
		api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", "not enough leave balance", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "submit_failed", err.Error(), reqID)
		return
	}
	api.Created(w, request, reqID)
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in decisionRequest
	if err := api.Decode(r, &in); err != nil && !errors.Is(err, api.ErrEmptyBody) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	requestID := chi.URLParam(r, "id")
	var err error
	if approve {
		err = h.Leave.Approve(r.Context(), user.TenantID, requestID, user.UserID, in.Note)
	} else {
		err = h.Leave.Reject(r.Context(), user.TenantID, requestID, user.UserID, in.Note)
	}
	switch {
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request is not pending", reqID)
	case errors.Is(err, leave.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "decision_failed", "failed to record decision", reqID)
	default:
		api.Success(w, map[string]string{"status": "decided"}, reqID)
	}
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	err = h.Leave.Cancel(r.Context(), user.TenantID, chi.URLParam(r, "id"), emp.ID)
	switch {
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request cannot be cancelled", reqID)
	case errors.Is(err, leave.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusForbidden, "cancel_failed", err.Error(), reqID)
	default:
		api.Success(w, map[string]string{"status": "cancelled"}, reqID)
	}
}

func (h *Handler) HandleMyBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Directory.ByUserID(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}
	balances, err := h.Leave.Balances(r.Context(), user.TenantID, emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list balances", reqID)
		return
	}
	api.Success(w, balances, reqID)
}

type adjustBalanceRequest struct {
	EmployeeID  string  `json:"employeeId" validate:"required,uuid"`
	LeaveTypeID string  `json:"leaveTypeId" validate:"required,uuid"`
	Delta       float64 `json:"delta" validate:"required"`
}

func (h *Handler) HandleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var in adjustBalanceRequest
	if err := api.Decode(r, &in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if issues := shared.Validate(in); issues != nil {
		api.FailValidation(w, issues, reqID)
		return
	}
	if err := h.Leave.AdjustBalance(r.Context(), user.TenantID, in.EmployeeID, in.LeaveTypeID, in.Delta); err != nil {
		api.Fail(w, http.StatusInternalServerError, "adjust_failed", "failed to adjust balance", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "adjusted"}, reqID)
}
