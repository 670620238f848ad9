package factoryd

import (
	"github.com/plantops/factoryd/kit/platform"
)

// ScopeKind is the tag of the Scope variant.
type ScopeKind int

const (
	// NoScope is a known principal with neither the admin flag nor a
	// factory attachment. Authorized for nothing scoped.
	NoScope ScopeKind = iota
	// FactoryScope grants access to operations targeting exactly one factory.
	FactoryScope
	// AdminScope grants access to all factory, entity and user operations.
	AdminScope
)

// Scope is the authorization context derived from a user record. It is
// computed once per request by the authentication middleware and
// passed explicitly through the call chain via context.
type Scope struct {
	Kind      ScopeKind
	UserID    platform.ID
	FactoryID platform.ID // valid only when Kind == FactoryScope
}

// ScopeFromUser derives the scope variant from a user record.
func ScopeFromUser(u *User) Scope {
	switch {
	case u.Admin:
		return Scope{Kind: AdminScope, UserID: u.ID}
	case u.FactoryID.Valid():
		return Scope{Kind: FactoryScope, UserID: u.ID, FactoryID: u.FactoryID}
	default:
		return Scope{Kind: NoScope, UserID: u.ID}
	}
}

// Allows reports whether the scope authorizes an operation targeting
// factory id. IDs are compared by value, never by string form.
func (s Scope) Allows(id platform.ID) bool {
	switch s.Kind {
	case AdminScope:
		return true
	case FactoryScope:
		return s.FactoryID == id
	default:
		return false
	}
}

// Admin reports whether the scope is the global admin scope.
func (s Scope) Admin() bool {
	return s.Kind == AdminScope
}
