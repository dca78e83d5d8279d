package leave

import (
	"context"
	"errors"
	"time"
)

var ErrInsufficientBalance = errors.New("insufficient leave balance")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ListTypes(ctx context.Context, tenantID string) ([]LeaveType, error) {
	return s.Store.ListTypes(ctx, tenantID)
}

func (s *Service) CreateType(ctx context.Context, tenantID, name, code string, isPaid bool) (string, error) {
	return s.Store.CreateType(ctx, tenantID, name, code, isPaid)
}

func (s *Service) GetRequest(ctx context.Context, tenantID, requestID string) (Request, error) {
	return s.Store.GetRequest(ctx, tenantID, requestID)
}

func (s *Service) ListRequests(ctx context.Context, tenantID, employeeID, status string) ([]Request, error) {
	return s.Store.ListRequests(ctx, tenantID, employeeID, status)
}

// Submit validates the range, computes the day count and checks balance
// for paid types before creating the pending request.
func (s *Service) Submit(ctx context.Context, tenantID, employeeID string, in RequestInput) (Request, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return Request{}, err
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return Request{}, err
	}

	days, err := CalculateRequestDays(start, end, in.StartHalf, in.EndHalf)
	if err != nil {
		return Request{}, err
	}

	balance, err := s.Store.Balance(ctx, tenantID, employeeID, in.LeaveTypeID)
	if err != nil {
		return Request{}, err
	}
	if balance < days {
		return Request{}, ErrInsufficientBalance
	}

	request := Request{
		EmployeeID:  employeeID,
		LeaveTypeID: in.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		StartHalf:   in.StartHalf,
		EndHalf:     in.EndHalf,
		Days:        days,
		Reason:      in.Reason,
		Status:      StatusPending,
	}
	id, err := s.Store.CreateRequest(ctx, tenantID, request)
	if err != nil {
		return Request{}, err
	}
	request.ID = id
	return request, nil
}

// Approve deducts the balance once the transition succeeds; the two
// writes are not atomic, but the transition guard guarantees at most one
// deduction per request.
func (s *Service) Approve(ctx context.Context, tenantID, requestID, approverID, note string) error {
	request, err := s.Store.GetRequest(ctx, tenantID, requestID)
	if err != nil {
		return err
	}
	if !CanTransition(request.Status, StatusApproved) {
		return ErrInvalidTransition
	}
	if err := s.Store.Decide(ctx, tenantID, requestID, request.Status, StatusApproved, approverID, note); err != nil {
		return err
	}
	return s.Store.AdjustBalance(ctx, tenantID, request.EmployeeID, request.LeaveTypeID, -request.Days)
}

func (s *Service) Reject(ctx context.Context, tenantID, requestID, approverID, note string) error {
	request, err := s.Store.GetRequest(ctx, tenantID, requestID)
	if err != nil {
		return err
	}
	if !CanTransition(request.Status, StatusRejected) {
		return ErrInvalidTransition
	}
	return s.Store.Decide(ctx, tenantID, requestID, request.Status, StatusRejected, approverID, note)
}

// Cancel is available to the requester; a cancelled approved request
// restores the deducted balance.
func (s *Service) Cancel(ctx context.Context, tenantID, requestID, requesterEmployeeID string) error {
	request, err := s.Store.GetRequest(ctx, tenantID, requestID)
	if err != nil {
		return err
	}
	if request.EmployeeID != requesterEmployeeID {
		return ErrNotFound
	}
	if !CanTransition(request.Status, StatusCancelled) {
		return ErrInvalidTransition
	}
	wasApproved := request.Status == StatusApproved
	if err := s.Store.Decide(ctx, tenantID, requestID, request.Status, StatusCancelled, "", ""); err != nil {
		return err
	}
	if wasApproved {
		return s.Store.AdjustBalance(ctx, tenantID, request.EmployeeID, request.LeaveTypeID, request.Days)
	}
	return nil
}

func (s *Service) Balances(ctx context.Context, tenantID, employeeID string) ([]Balance, error) {
	return s.Store.Balances(ctx, tenantID, employeeID)
}

func (s *Service) AdjustBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, delta float64) error {
	return s.Store.AdjustBalance(ctx, tenantID, employeeID, leaveTypeID, delta)
}
