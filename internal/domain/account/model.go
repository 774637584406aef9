package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 64
	MaxEmailLength    = 254
)

// Role constants. Privilege strictly decreases down the list; Genesis Admin
// is the superuser and bypasses page access checks entirely.
const (
	RoleGenesisAdmin  = "Genesis Admin"
	RolePlatformAdmin = "Platform Admin"
	RoleUserAdmin     = "User Admin"
	RoleUser          = "User"
	RoleGuest         = "Guest"
)

// Account status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

// ValidRoles contains all valid role values, highest privilege first.
var ValidRoles = []string{RoleGenesisAdmin, RolePlatformAdmin, RoleUserAdmin, RoleUser, RoleGuest}

// ValidStatuses contains all valid account status values.
var ValidStatuses = []string{StatusActive, StatusInactive, StatusPending, StatusSuspended}

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrInvalidUsername  = errors.New("username may not contain spaces")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: Genesis Admin, Platform Admin, User Admin, User, Guest")
	ErrInvalidStatus    = errors.New("status must be one of: active, inactive, pending, suspended")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrSuspended        = errors.New("account is suspended")
	ErrPendingApproval  = errors.New("account is pending approval")
	ErrInactive         = errors.New("account is inactive")
)

// Account holds state for one platform user.
type Account struct {
	ID                     string
	Username               string
	Email                  string
	PasswordHash           string
	Role                   string
	Status                 string // active, inactive, pending, suspended
	CreatedAt              time.Time
	FailedLogins           int
	LockedUntil            time.Time
	PasswordChangeRequired bool
}

// PrivilegeLevel returns the numeric privilege of a role; higher outranks
// lower. Unknown roles map to -1 so they never outrank anything.
func PrivilegeLevel(role string) int {
	switch role {
	case RoleGenesisAdmin:
		return 4
	case RolePlatformAdmin:
		return 3
	case RoleUserAdmin:
		return 2
	case RoleUser:
		return 1
	case RoleGuest:
		return 0
	default:
		return -1
	}
}

// IsValidRole reports whether role is one of the known role values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 64 characters")
	}
	if strings.ContainsAny(a.Username, " \t\n") {
		return ErrInvalidUsername
	}
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if !IsValidRole(a.Role) {
		return ErrInvalidRole
	}
	if a.Status != "" && !isValidStatus(a.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext))
	if err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Account exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = time.Now().Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// PRE: Account exists
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// IsGenesisAdmin returns true if the account holds the superuser role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsGenesisAdmin() bool {
	return a.Role == RoleGenesisAdmin
}

// IsAnyAdmin returns true for Genesis, Platform and User Admin roles.
// INVARIANT: Account fields are not mutated
func (a *Account) IsAnyAdmin() bool {
	return PrivilegeLevel(a.Role) >= PrivilegeLevel(RoleUserAdmin)
}

// CanLogin returns nil if the account status permits login.
// Suspended accounts are rejected outright; pending accounts must be
// approved by an admin first.
func (a *Account) CanLogin() error {
	switch a.Status {
	case StatusSuspended:
		return ErrSuspended
	case StatusPending:
		return ErrPendingApproval
	case StatusInactive:
		return ErrInactive
	}
	return nil
}

// Suspend flips the account to suspended status. Accounts are never
// hard-deleted in normal flows, only status flips.
// POST: Status is suspended
func (a *Account) Suspend() {
	a.Status = StatusSuspended
}

// Restore flips a non-active account back to active.
// POST: Status is active
func (a *Account) Restore() {
	a.Status = StatusActive
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
