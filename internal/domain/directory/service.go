package directory

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	return s.Store.Get(ctx, tenantID, employeeID)
}

func (s *Service) ByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	return s.Store.ByUserID(ctx, tenantID, userID)
}

func (s *Service) List(ctx context.Context, tenantID, search string, limit, offset int) ([]Employee, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.List(ctx, tenantID, search, limit, offset)
}

func (s *Service) Create(ctx context.Context, tenantID string, in EmployeeInput) (string, error) {
	startDate, err := parseStartDate(in.StartDate)
	if err != nil {
		return "", err
	}
	return s.Store.Create(ctx, tenantID, in, startDate)
}

func (s *Service) Update(ctx context.Context, tenantID, employeeID string, in EmployeeInput) error {
	startDate, err := parseStartDate(in.StartDate)
	if err != nil {
		return err
	}
	return s.Store.Update(ctx, tenantID, employeeID, in, startDate)
}

func (s *Service) Deactivate(ctx context.Context, tenantID, employeeID string) error {
	return s.Store.Deactivate(ctx, tenantID, employeeID)
}

func parseStartDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
