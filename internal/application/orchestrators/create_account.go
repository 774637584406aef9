package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"genesis/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Username               string
	Email                  string
	Password               string
	Role                   string
	Status                 string
	PasswordChangeRequired bool
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrUsernameAlreadyExists = errors.New("username already exists")

// ExecuteCreateAccount coordinates account creation. Self-registration and
// admin-driven creation both go through here; the handler decides role and
// status.
// PRE: Valid username, password >= 8 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Username must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	if input.Username == "" {
		return "", account.ErrEmptyUsername
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}
	if input.Role == "" {
		input.Role = account.RoleUser
	}
	if input.Status == "" {
		input.Status = account.StatusActive
	}

	_, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err == nil {
		return "", ErrUsernameAlreadyExists
	}

	acct := account.Account{
		ID:                     uuid.New().String(),
		Username:               input.Username,
		Email:                  input.Email,
		Role:                   input.Role,
		Status:                 input.Status,
		CreatedAt:              time.Now(),
		PasswordChangeRequired: input.PasswordChangeRequired,
	}

	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "username", input.Username, "role", input.Role)

	return acct.ID, nil
}
