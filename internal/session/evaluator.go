package session

import "herohub/internal/domain/authz"

// IdentitySource is the read side of the provider. The evaluator only
// needs a snapshot of whoever is logged in.
type IdentitySource interface {
	Current() *Identity
}

// Evaluator answers authorization questions against the active identity.
// It is a pure lookup with no side effects: missing identity, missing
// permission set and missing module all uniformly degrade to false.
//
// IsAdmin deliberately grants nothing at the module level; admins carry a
// full permission set instead. Keeping the evaluator policy-free makes
// both rules independently testable.
type Evaluator struct {
	source IdentitySource
}

func NewEvaluator(source IdentitySource) *Evaluator {
	return &Evaluator{source: source}
}

func (e *Evaluator) CanRead(module string) bool {
	if ident := e.source.Current(); ident != nil {
		return ident.Permissions.CanRead(module)
	}
	return false
}

func (e *Evaluator) CanWrite(module string) bool {
	if ident := e.source.Current(); ident != nil {
		return ident.Permissions.CanWrite(module)
	}
	return false
}

func (e *Evaluator) CanDelete(module string) bool {
	if ident := e.source.Current(); ident != nil {
		return ident.Permissions.CanDelete(module)
	}
	return false
}

func (e *Evaluator) HasAnyPermission(module string) bool {
	if ident := e.source.Current(); ident != nil {
		return ident.Permissions.HasAny(module)
	}
	return false
}

// IsAdmin is an exact role match. SuperAdmin is not Admin.
func (e *Evaluator) IsAdmin() bool {
	ident := e.source.Current()
	return ident != nil && ident.Role == authz.RoleAdmin
}
