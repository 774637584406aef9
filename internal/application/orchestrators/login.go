package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"genesis/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID              string
	Username               string
	Role                   string
	PasswordChangeRequired bool
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrAccountSuspended   = errors.New("account has been suspended")
	ErrAccountPending     = errors.New("account is awaiting approval")
)

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Username and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: Account must not be locked, suspended, or pending
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := acct.CanLogin(); err != nil {
		reason := "inactive"
		result := ErrInvalidCredentials
		switch err {
		case account.ErrSuspended:
			reason = "suspended"
			result = ErrAccountSuspended
		case account.ErrPendingApproval:
			reason = "pending_approval"
			result = ErrAccountPending
		}
		slog.Info("auth_event", "event", "login_blocked", "username", input.Username, "reason", reason)
		return LoginResult{}, result
	}

	if acct.IsLocked() {
		slog.Info("auth_event", "event", "login_blocked", "username", input.Username, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin()
		_ = deps.AccountStore.Save(ctx, acct)
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	acct.ResetFailedLogins()
	_ = deps.AccountStore.Save(ctx, acct)

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", acct.Role)

	return LoginResult{
		AccountID:              acct.ID,
		Username:               acct.Username,
		Role:                   acct.Role,
		PasswordChangeRequired: acct.PasswordChangeRequired,
	}, nil
}
