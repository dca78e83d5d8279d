package assets

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

func (s *Service) Get(ctx context.Context, tenantID, assetID string) (*Asset, error) {
	return s.Store.Get(ctx, tenantID, assetID)
}

func (s *Service) List(ctx context.Context, tenantID, status string) ([]Asset, error) {
	return s.Store.List(ctx, tenantID, status)
}

func (s *Service) Create(ctx context.Context, tenantID string, in AssetInput) (string, error) {
	a := Asset{
		Tag:          in.Tag,
		Name:         in.Name,
		Category:     in.Category,
		SerialNumber: in.SerialNumber,
	}
	if in.PurchasedAt != "" {
		t, err := time.Parse("2006-01-02", in.PurchasedAt)
		if err != nil {
			return "", err
		}
		a.PurchasedAt = &t
	}
	return s.Store.Create(ctx, tenantID, a)
}

func (s *Service) Assign(ctx context.Context, tenantID, assetID, employeeID, note string) (string, error) {
	return s.Store.Assign(ctx, tenantID, assetID, employeeID, note)
}

func (s *Service) Return(ctx context.Context, tenantID, assetID string) error {
	return s.Store.Return(ctx, tenantID, assetID)
}

func (s *Service) Retire(ctx context.Context, tenantID, assetID string) error {
	return s.Store.Retire(ctx, tenantID, assetID)
}

func (s *Service) AssignmentsForEmployee(ctx context.Context, tenantID, employeeID string) ([]Assignment, error) {
	return s.Store.AssignmentsForEmployee(ctx, tenantID, employeeID)
}
