package accesspolicy

import (
	"errors"

	"genesis/internal/domain/account"
)

// PagePolicy holds server-enforced access controls for one page.
//
// Page is the stable identifier referenced by routes and templates.
//
// NOTE: We store booleans per role explicitly rather than using maps to keep
// storage and JSON payloads simple. Genesis Admin is not listed: the
// superuser bypasses the policy table entirely.
type PagePolicy struct {
	Page        string
	Description string

	// Public marks the page as reachable without any session at all.
	Public bool

	AllowPlatformAdmin bool
	AllowUserAdmin     bool
	AllowUser          bool
	AllowGuest         bool
}

var (
	ErrMissingPage = errors.New("page identifier is required")
)

// Validate checks required fields for a PagePolicy.
// PRE: PagePolicy struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *PagePolicy) Validate() error {
	if p.Page == "" {
		return ErrMissingPage
	}
	return nil
}

// AllowsRole returns true if the policy grants access to the given role.
//
// PRE: role is a session role string
// INVARIANT: p is not mutated
func (p PagePolicy) AllowsRole(role string) bool {
	if p.Public {
		return true
	}
	switch role {
	case account.RoleGenesisAdmin:
		return true
	case account.RolePlatformAdmin:
		return p.AllowPlatformAdmin
	case account.RoleUserAdmin:
		return p.AllowUserAdmin
	case account.RoleUser:
		return p.AllowUser
	case account.RoleGuest:
		return p.AllowGuest
	default:
		return false
	}
}

// Decide applies the gatekeeper semantics for a role/page pair against a
// policy set: public pages always pass, Genesis Admin bypasses every check,
// and pages absent from the table default to denied.
//
// PRE: policies is keyed by PagePolicy.Page
// POST: returns true only if the pair is permitted
func Decide(policies map[string]PagePolicy, role, page string) bool {
	if role == account.RoleGenesisAdmin {
		return true
	}
	policy, known := policies[page]
	if !known {
		// Fail closed: an unregistered page is nobody's page.
		return false
	}
	return policy.AllowsRole(role)
}
