package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/accesspolicy"
	"genesis/internal/domain/account"
)

type mockPolicyStore struct {
	policies map[string]accesspolicy.PagePolicy
	saves    int
}

func newMockPolicyStore(policies ...accesspolicy.PagePolicy) *mockPolicyStore {
	m := &mockPolicyStore{policies: make(map[string]accesspolicy.PagePolicy)}
	for _, p := range policies {
		m.policies[p.Page] = p
	}
	return m
}

func (m *mockPolicyStore) GetByPage(_ context.Context, page string) (accesspolicy.PagePolicy, error) {
	p, ok := m.policies[page]
	if !ok {
		return accesspolicy.PagePolicy{}, errors.New("not found")
	}
	return p, nil
}

func (m *mockPolicyStore) Save(_ context.Context, p accesspolicy.PagePolicy) error {
	m.policies[p.Page] = p
	m.saves++
	return nil
}

// TestExecuteSeedAccounts_EmptyDatabase tests bootstrap account creation.
func TestExecuteSeedAccounts_EmptyDatabase(t *testing.T) {
	store := newMockAccountStore()

	if err := ExecuteSeedAccounts(context.Background(), CreateAccountDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	genesis, ok := store.byUsername["genesis"]
	if !ok {
		t.Fatal("expected genesis account seeded")
	}
	if genesis.Role != account.RoleGenesisAdmin {
		t.Errorf("expected genesis role=Genesis Admin, got %s", genesis.Role)
	}
	admin, ok := store.byUsername["admin"]
	if !ok {
		t.Fatal("expected admin account seeded")
	}
	if admin.Role != account.RolePlatformAdmin {
		t.Errorf("expected admin role=Platform Admin, got %s", admin.Role)
	}
}

// TestExecuteSeedAccounts_AccountsAreValid tests that every seeded account
// passes full account validation, so a fresh start never fails on its own
// bootstrap data.
func TestExecuteSeedAccounts_AccountsAreValid(t *testing.T) {
	store := newMockAccountStore()

	if err := ExecuteSeedAccounts(context.Background(), CreateAccountDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, username := range []string{"genesis", "admin"} {
		acct, ok := store.byUsername[username]
		if !ok {
			t.Fatalf("expected %s account seeded", username)
		}
		if acct.Email == "" {
			t.Errorf("expected %s to carry an email", username)
		}
		if err := acct.Validate(); err != nil {
			t.Errorf("seeded %s fails validation: %v", username, err)
		}
		if acct.Status != account.StatusActive {
			t.Errorf("expected %s active, got %s", username, acct.Status)
		}
	}
}

// TestExecuteSeedAccounts_NonEmptyDatabase tests that seeding never runs
// against an existing account table.
func TestExecuteSeedAccounts_NonEmptyDatabase(t *testing.T) {
	store := newMockAccountStore(activeAccount(t, "acc-1", "alice", account.RoleUser, "longenough"))

	if err := ExecuteSeedAccounts(context.Background(), CreateAccountDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.byUsername["genesis"]; ok {
		t.Error("expected no seeding when accounts already exist")
	}
}

// TestExecuteSeedPolicies_Fresh tests that every default page gets a policy row.
func TestExecuteSeedPolicies_Fresh(t *testing.T) {
	store := newMockPolicyStore()

	if err := ExecuteSeedPolicies(context.Background(), store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.policies) != len(accesspolicy.DefaultPolicies()) {
		t.Errorf("expected %d policies, got %d", len(accesspolicy.DefaultPolicies()), len(store.policies))
	}
}

// TestExecuteSeedPolicies_PreservesEdits tests that an admin's stored policy
// is never overwritten by a restart.
func TestExecuteSeedPolicies_PreservesEdits(t *testing.T) {
	edited := accesspolicy.PagePolicy{
		Page:      "/dashboard",
		AllowUser: false, // admin turned regular users away
	}
	store := newMockPolicyStore(edited)

	if err := ExecuteSeedPolicies(context.Background(), store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.policies["/dashboard"]
	if saved.AllowUser {
		t.Error("expected edited policy preserved, got default values")
	}
	// The other pages were still created
	if len(store.policies) != len(accesspolicy.DefaultPolicies()) {
		t.Errorf("expected %d policies, got %d", len(accesspolicy.DefaultPolicies()), len(store.policies))
	}
}

// TestExecuteSeedPolicies_Idempotent tests that a second run writes nothing.
func TestExecuteSeedPolicies_Idempotent(t *testing.T) {
	store := newMockPolicyStore()

	if err := ExecuteSeedPolicies(context.Background(), store); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstSaves := store.saves
	if err := ExecuteSeedPolicies(context.Background(), store); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if store.saves != firstSaves {
		t.Errorf("expected no new saves on second run, got %d extra", store.saves-firstSaves)
	}
}
