package authz

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Resolve builds the effective permission set for a role: the built-in
// baseline with tenant overrides applied on top. The result is always a
// fresh map; callers may hand it out without copying.
func (s *Service) Resolve(ctx context.Context, tenantID string, role Role) (ModulePermissionSet, error) {
	effective := DefaultsFor(role)
	overrides, err := s.Store.Overrides(ctx, tenantID, role)
	if err != nil {
		return nil, err
	}
	for module, perm := range overrides {
		effective[module] = perm
	}
	return effective, nil
}

// Allows answers a single module/action question for a user. Used by the
// RBAC middleware; unknown users and unknown roles resolve to false.
func (s *Service) Allows(ctx context.Context, tenantID, userID, module string, action Action) (bool, error) {
	role, err := s.Store.UserRole(ctx, tenantID, userID)
	if err != nil {
		return false, err
	}
	if role == RoleUnknown {
		return false, nil
	}
	perms, err := s.Resolve(ctx, tenantID, role)
	if err != nil {
		return false, err
	}
	return perms.Allows(module, action), nil
}

func (s *Service) SetOverride(ctx context.Context, tenantID string, role Role, module string, perm ModulePermission) error {
	return s.Store.UpsertOverride(ctx, tenantID, role, module, perm)
}

func (s *Service) ClearOverride(ctx context.Context, tenantID string, role Role, module string) error {
	return s.Store.DeleteOverride(ctx, tenantID, role, module)
}

func (s *Service) ChangeUserRole(ctx context.Context, tenantID, userID string, role Role) error {
	return s.Store.UpdateUserRole(ctx, tenantID, userID, role)
}

func (s *Service) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]UserAccount, error) {
	return s.Store.ListUsers(ctx, tenantID, limit, offset)
}
