package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/account"
)

// TestExecuteChangePassword_Success tests a full password rotation.
func TestExecuteChangePassword_Success(t *testing.T) {
	acct := activeAccount(t, "acc-1", "alice", account.RoleUser, "old-password")
	acct.PasswordChangeRequired = true
	store := newMockAccountStore(acct)

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	}, ChangePasswordDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved := store.byID["acc-1"]
	if saved.PasswordChangeRequired {
		t.Error("expected PasswordChangeRequired cleared")
	}
	if err := saved.CheckPassword("new-password"); err != nil {
		t.Errorf("expected new password to verify: %v", err)
	}
	if err := saved.CheckPassword("old-password"); err == nil {
		t.Error("expected old password to stop working")
	}
}

// TestExecuteChangePassword_WrongCurrent tests rejection of a bad current password.
func TestExecuteChangePassword_WrongCurrent(t *testing.T) {
	store := newMockAccountStore(activeAccount(t, "acc-1", "alice", account.RoleUser, "old-password"))

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "not-the-one",
		NewPassword:     "new-password",
	}, ChangePasswordDeps{AccountStore: store})
	if !errors.Is(err, ErrCurrentPasswordWrong) {
		t.Errorf("expected ErrCurrentPasswordWrong, got %v", err)
	}
}

// TestExecuteChangePassword_SamePassword tests that reusing the current
// password is rejected.
func TestExecuteChangePassword_SamePassword(t *testing.T) {
	store := newMockAccountStore(activeAccount(t, "acc-1", "alice", account.RoleUser, "old-password"))

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "old-password",
		NewPassword:     "old-password",
	}, ChangePasswordDeps{AccountStore: store})
	if !errors.Is(err, ErrNewPasswordSame) {
		t.Errorf("expected ErrNewPasswordSame, got %v", err)
	}
}

// TestExecuteChangePassword_TooShort tests the minimum length on the new password.
func TestExecuteChangePassword_TooShort(t *testing.T) {
	store := newMockAccountStore(activeAccount(t, "acc-1", "alice", account.RoleUser, "old-password"))

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acc-1",
		CurrentPassword: "old-password",
		NewPassword:     "short",
	}, ChangePasswordDeps{AccountStore: store})
	if !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

// TestExecuteChangePassword_MissingFields tests early rejection of blank input.
func TestExecuteChangePassword_MissingFields(t *testing.T) {
	store := newMockAccountStore()
	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID: "acc-1",
	}, ChangePasswordDeps{AccountStore: store})
	if err == nil {
		t.Error("expected error for missing passwords")
	}
}

// TestExecuteChangePassword_UnknownAccount tests the not-found path.
func TestExecuteChangePassword_UnknownAccount(t *testing.T) {
	store := newMockAccountStore()
	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "ghost",
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	}, ChangePasswordDeps{AccountStore: store})
	if err == nil {
		t.Error("expected error for unknown account")
	}
}
