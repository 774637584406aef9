package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"genesis/internal/domain/account"
)

// AccountStoreForManage defines the store interface needed by account
// administration orchestrators.
type AccountStoreForManage interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
}

// ManageAccountDeps holds dependencies for account administration.
type ManageAccountDeps struct {
	AccountStore AccountStoreForManage
}

var (
	ErrCannotEditSelf   = errors.New("administrators cannot change their own role or status")
	ErrGenesisProtected = errors.New("only a Genesis Admin may modify a Genesis Admin account")
	ErrInsufficientPriv = errors.New("the target role is above your privilege level")
	ErrCannotDeleteSelf = errors.New("administrators cannot delete their own account")
)

// canAdminister reports whether actor may modify the target account. Genesis
// Admin accounts are only editable by other Genesis Admins, and no admin may
// promote past their own level.
func canAdminister(actor, target account.Account) error {
	if actor.ID == target.ID {
		return ErrCannotEditSelf
	}
	if target.Role == account.RoleGenesisAdmin && !actor.IsGenesisAdmin() {
		return ErrGenesisProtected
	}
	return nil
}

// ExecuteSuspendAccount suspends the target account, blocking future logins.
// PRE: actor outranks the target
// POST: Target status is suspended
func ExecuteSuspendAccount(ctx context.Context, targetID string, actor account.Account, deps ManageAccountDeps) error {
	target, err := deps.AccountStore.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := canAdminister(actor, target); err != nil {
		return err
	}

	target.Suspend()
	if err := deps.AccountStore.Save(ctx, target); err != nil {
		return err
	}

	slog.Info("account_event", "event", "account_suspended", "target", target.Username, "actor", actor.Username)
	return nil
}

// ExecuteRestoreAccount reactivates a suspended or pending account.
// PRE: actor outranks the target
// POST: Target status is active
func ExecuteRestoreAccount(ctx context.Context, targetID string, actor account.Account, deps ManageAccountDeps) error {
	target, err := deps.AccountStore.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := canAdminister(actor, target); err != nil {
		return err
	}

	target.Restore()
	if err := deps.AccountStore.Save(ctx, target); err != nil {
		return err
	}

	slog.Info("account_event", "event", "account_restored", "target", target.Username, "actor", actor.Username)
	return nil
}

// ExecuteChangeRole sets a new role on the target account.
// PRE: actor outranks both the target's current and new role
// POST: Target carries the new role; takes effect at their next login
func ExecuteChangeRole(ctx context.Context, targetID, newRole string, actor account.Account, deps ManageAccountDeps) error {
	if !account.IsValidRole(newRole) {
		return account.ErrInvalidRole
	}

	target, err := deps.AccountStore.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := canAdminister(actor, target); err != nil {
		return err
	}
	if account.PrivilegeLevel(newRole) > account.PrivilegeLevel(actor.Role) {
		return ErrInsufficientPriv
	}

	oldRole := target.Role
	target.Role = newRole
	if err := deps.AccountStore.Save(ctx, target); err != nil {
		return err
	}

	slog.Info("account_event", "event", "role_changed", "target", target.Username, "from", oldRole, "to", newRole, "actor", actor.Username)
	return nil
}

// ExecuteDeleteAccount permanently removes an account.
// PRE: actor is a Genesis Admin and is not deleting themselves
// POST: Account row is removed; existing sessions are revoked by the caller
func ExecuteDeleteAccount(ctx context.Context, targetID string, actor account.Account, deps ManageAccountDeps) error {
	if !actor.IsGenesisAdmin() {
		return ErrGenesisProtected
	}
	target, err := deps.AccountStore.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if actor.ID == target.ID {
		return ErrCannotDeleteSelf
	}

	if err := deps.AccountStore.Delete(ctx, targetID); err != nil {
		return err
	}

	slog.Info("account_event", "event", "account_deleted", "target", target.Username, "actor", actor.Username)
	return nil
}
