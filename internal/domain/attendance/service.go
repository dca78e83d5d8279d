package attendance

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) CheckIn(ctx context.Context, tenantID, employeeID, source string) (string, error) {
	return s.Store.CheckIn(ctx, tenantID, employeeID, source, s.Now().UTC())
}

func (s *Service) CheckOut(ctx context.Context, tenantID, employeeID string) error {
	return s.Store.CheckOut(ctx, tenantID, employeeID, s.Now().UTC())
}

func (s *Service) MonthlySummary(ctx context.Context, tenantID, employeeID string, year int, month time.Month) (*MonthSummary, error) {
	punches, err := s.Store.ListMonth(ctx, tenantID, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	sum := BuildMonthSummary(year, month, punches, s.Now().UTC())
	return &sum, nil
}
