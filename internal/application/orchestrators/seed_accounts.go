package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"genesis/internal/domain/accesspolicy"
	"genesis/internal/domain/account"
)

// PolicyStoreForSeed defines the store interface needed by SeedPolicies.
type PolicyStoreForSeed interface {
	GetByPage(ctx context.Context, page string) (accesspolicy.PagePolicy, error)
	Save(ctx context.Context, p accesspolicy.PagePolicy) error
}

// seedAccountDef defines a single bootstrap account.
type seedAccountDef struct {
	Username string
	Email    string
	Password string
	Role     string
}

// seedAccounts returns the bootstrap accounts created on first run. The
// placeholder addresses satisfy account validation; operators replace
// them when they rotate the seeded passwords.
func seedAccounts() []seedAccountDef {
	return []seedAccountDef{
		{Username: "genesis", Email: "genesis@genesis.local", Password: "admin123", Role: account.RoleGenesisAdmin},
		{Username: "admin", Email: "admin@genesis.local", Password: "admin123", Role: account.RolePlatformAdmin},
	}
}

// ExecuteSeedAccounts creates the bootstrap admin accounts if no accounts
// exist yet. A freshly migrated database comes up with a Genesis Admin and a
// Platform Admin so the system is administrable from the first start.
// PRE: Database is migrated
// POST: Bootstrap accounts exist when the account table was empty
func ExecuteSeedAccounts(ctx context.Context, deps CreateAccountDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, def := range seedAccounts() {
		_, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Username: def.Username,
			Email:    def.Email,
			Password: def.Password,
			Role:     def.Role,
			Status:   account.StatusActive,
		}, deps)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", def.Username, err)
		}
		slog.Info("seed_event", "event", "account_seeded", "username", def.Username, "role", def.Role)
	}
	return nil
}

// ExecuteSeedPolicies inserts the default page access policies for any page
// that has no stored policy yet. Existing rows are left untouched, so admin
// edits survive restarts.
// PRE: Database is migrated
// POST: Every known page has a policy row
func ExecuteSeedPolicies(ctx context.Context, store PolicyStoreForSeed) error {
	created := 0
	for _, policy := range accesspolicy.DefaultPolicies() {
		if _, err := store.GetByPage(ctx, policy.Page); err == nil {
			continue
		}
		if err := store.Save(ctx, policy); err != nil {
			return fmt.Errorf("seed policy %s: %w", policy.Page, err)
		}
		created++
	}
	if created > 0 {
		slog.Info("seed_event", "event", "policies_seeded", "created", created)
	}
	return nil
}
