package orchestrators

import (
	"errors"

	"genesis/internal/domain/account"
)

// ErrUnknownRole signals a session carrying a role the dispatcher does not
// recognize. Callers must treat this as fatal for the session: log it, clear
// the session, and send the user back to the login page.
var ErrUnknownRole = errors.New("unknown role in session")

// LandingPathForRole returns the post-login destination for a role. Each role
// has exactly one home page.
// POST: Returns a path, or ErrUnknownRole for roles outside the known set
func LandingPathForRole(role string) (string, error) {
	switch role {
	case account.RoleGenesisAdmin:
		return "/admin/control-panel", nil
	case account.RolePlatformAdmin, account.RoleUserAdmin:
		return "/platform", nil
	case account.RoleUser:
		return "/dashboard", nil
	case account.RoleGuest:
		return "/", nil
	default:
		return "", ErrUnknownRole
	}
}
