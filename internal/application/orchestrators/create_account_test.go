package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/account"
)

// TestExecuteCreateAccount_Valid tests creating an account with full input.
func TestExecuteCreateAccount_Valid(t *testing.T) {
	store := newMockAccountStore()

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "alice",
		Email:    "alice@genesis.test",
		Password: "longenough",
		Role:     account.RoleUserAdmin,
	}, CreateAccountDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty account ID")
	}
	saved, ok := store.byUsername["alice"]
	if !ok {
		t.Fatal("expected account persisted in store")
	}
	if saved.Role != account.RoleUserAdmin {
		t.Errorf("expected role=User Admin, got %s", saved.Role)
	}
	if saved.PasswordHash == "" || saved.PasswordHash == "longenough" {
		t.Error("expected password to be stored as a hash")
	}
	if err := saved.CheckPassword("longenough"); err != nil {
		t.Errorf("expected stored hash to verify: %v", err)
	}
}

// TestExecuteCreateAccount_Defaults tests that role and status default to
// User and active.
func TestExecuteCreateAccount_Defaults(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "bob",
		Email:    "bob@genesis.test",
		Password: "longenough",
	}, CreateAccountDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.byUsername["bob"]
	if saved.Role != account.RoleUser {
		t.Errorf("expected default role=User, got %s", saved.Role)
	}
	if saved.Status != account.StatusActive {
		t.Errorf("expected default status=active, got %s", saved.Status)
	}
}

// TestExecuteCreateAccount_DuplicateUsername tests the uniqueness invariant.
func TestExecuteCreateAccount_DuplicateUsername(t *testing.T) {
	store := newMockAccountStore(activeAccount(t, "acc-1", "alice", account.RoleUser, "longenough"))

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "alice",
		Email:    "other@genesis.test",
		Password: "longenough",
	}, CreateAccountDeps{AccountStore: store})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Errorf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

// TestExecuteCreateAccount_Invalid tests rejected inputs.
func TestExecuteCreateAccount_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateAccountInput
		wantErr error
	}{
		{
			name:    "empty username",
			input:   CreateAccountInput{Email: "a@b.c", Password: "longenough"},
			wantErr: account.ErrEmptyUsername,
		},
		{
			name:    "username with spaces",
			input:   CreateAccountInput{Username: "a b", Email: "a@b.c", Password: "longenough"},
			wantErr: account.ErrInvalidUsername,
		},
		{
			name:    "short password",
			input:   CreateAccountInput{Username: "alice", Email: "a@b.c", Password: "short"},
			wantErr: account.ErrPasswordTooShort,
		},
		{
			name:    "invalid role",
			input:   CreateAccountInput{Username: "alice", Email: "a@b.c", Password: "longenough", Role: "Overlord"},
			wantErr: account.ErrInvalidRole,
		},
		{
			name:    "missing email",
			input:   CreateAccountInput{Username: "alice", Password: "longenough"},
			wantErr: account.ErrEmptyEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockAccountStore()
			_, err := ExecuteCreateAccount(context.Background(), tt.input, CreateAccountDeps{AccountStore: store})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestExecuteCreateAccount_EmptyPassword tests that a blank password is
// rejected before any store access.
func TestExecuteCreateAccount_EmptyPassword(t *testing.T) {
	store := newMockAccountStore()
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "alice",
		Email:    "a@b.c",
	}, CreateAccountDeps{AccountStore: store})
	if err == nil {
		t.Error("expected error for empty password")
	}
}
