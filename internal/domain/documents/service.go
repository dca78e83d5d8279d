package documents

import (
	"context"
	"fmt"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Upload(ctx context.Context, tenantID, uploadedBy string, in UploadInput) (string, error) {
	if len(in.Content) == 0 {
		return "", fmt.Errorf("empty document")
	}
	if len(in.Content) > MaxDocumentBytes {
		return "", fmt.Errorf("document exceeds %d bytes", MaxDocumentBytes)
	}
	if !AllowedContentType(in.ContentType) {
		return "", fmt.Errorf("content type %q not allowed", in.ContentType)
	}
	d := Document{
		EmployeeID:  in.EmployeeID,
		Title:       in.Title,
		Category:    in.Category,
		ContentType: in.ContentType,
		UploadedBy:  uploadedBy,
	}
	return s.Store.Insert(ctx, tenantID, d, in.Content)
}

func (s *Service) Meta(ctx context.Context, tenantID, docID string) (*Document, error) {
	return s.Store.Meta(ctx, tenantID, docID)
}

func (s *Service) Download(ctx context.Context, tenantID, docID string) (*Document, []byte, error) {
	return s.Store.Content(ctx, tenantID, docID)
}

func (s *Service) ListForEmployee(ctx context.Context, tenantID, employeeID string) ([]Document, error) {
	return s.Store.ListForEmployee(ctx, tenantID, employeeID)
}

func (s *Service) Delete(ctx context.Context, tenantID, docID string) error {
	return s.Store.Delete(ctx, tenantID, docID)
}
