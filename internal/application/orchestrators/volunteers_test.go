package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/volunteer"
)

type mockVolunteerStore struct {
	volunteers map[string]volunteer.Volunteer
}

func newMockVolunteerStore(items ...volunteer.Volunteer) *mockVolunteerStore {
	m := &mockVolunteerStore{volunteers: make(map[string]volunteer.Volunteer)}
	for _, v := range items {
		m.volunteers[v.ID] = v
	}
	return m
}

func (m *mockVolunteerStore) GetByID(_ context.Context, id string) (volunteer.Volunteer, error) {
	v, ok := m.volunteers[id]
	if !ok {
		return volunteer.Volunteer{}, errors.New("not found")
	}
	return v, nil
}

func (m *mockVolunteerStore) GetByEmail(_ context.Context, email string) (volunteer.Volunteer, error) {
	for _, v := range m.volunteers {
		if v.Email == email {
			return v, nil
		}
	}
	return volunteer.Volunteer{}, errors.New("not found")
}

func (m *mockVolunteerStore) Save(_ context.Context, v volunteer.Volunteer) error {
	m.volunteers[v.ID] = v
	return nil
}

// TestExecuteAddVolunteer_Valid tests registering a new volunteer.
func TestExecuteAddVolunteer_Valid(t *testing.T) {
	store := newMockVolunteerStore()

	id, err := ExecuteAddVolunteer(context.Background(), AddVolunteerInput{
		Name:  "Pat Example",
		Email: "pat@example.com",
		Team:  "outreach",
	}, VolunteerDeps{VolunteerStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.volunteers[id]
	if saved.Status != volunteer.StatusActive {
		t.Errorf("expected status=active, got %s", saved.Status)
	}
	if saved.Team != "outreach" {
		t.Errorf("expected team=outreach, got %s", saved.Team)
	}
}

// TestExecuteAddVolunteer_DuplicateEmail tests the email uniqueness invariant.
func TestExecuteAddVolunteer_DuplicateEmail(t *testing.T) {
	store := newMockVolunteerStore(volunteer.Volunteer{
		ID: "v1", Name: "Pat", Email: "pat@example.com", Team: "outreach", Status: volunteer.StatusActive,
	})

	_, err := ExecuteAddVolunteer(context.Background(), AddVolunteerInput{
		Name:  "Other Pat",
		Email: "pat@example.com",
		Team:  "events",
	}, VolunteerDeps{VolunteerStore: store})
	if !errors.Is(err, ErrVolunteerEmailExists) {
		t.Errorf("expected ErrVolunteerEmailExists, got %v", err)
	}
}

// TestExecuteArchiveRestoreVolunteer tests the archive lifecycle.
func TestExecuteArchiveRestoreVolunteer(t *testing.T) {
	store := newMockVolunteerStore(volunteer.Volunteer{
		ID: "v1", Name: "Pat", Email: "pat@example.com", Team: "outreach", Status: volunteer.StatusActive,
	})
	deps := VolunteerDeps{VolunteerStore: store}

	if err := ExecuteArchiveVolunteer(context.Background(), "v1", deps); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if store.volunteers["v1"].Status != volunteer.StatusArchived {
		t.Errorf("expected status=archived, got %s", store.volunteers["v1"].Status)
	}

	// Double archive is rejected
	if err := ExecuteArchiveVolunteer(context.Background(), "v1", deps); !errors.Is(err, volunteer.ErrAlreadyArchived) {
		t.Errorf("expected ErrAlreadyArchived, got %v", err)
	}

	if err := ExecuteRestoreVolunteer(context.Background(), "v1", deps); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if store.volunteers["v1"].Status != volunteer.StatusActive {
		t.Errorf("expected status=active, got %s", store.volunteers["v1"].Status)
	}

	// Restoring an active volunteer is rejected
	if err := ExecuteRestoreVolunteer(context.Background(), "v1", deps); !errors.Is(err, volunteer.ErrNotArchived) {
		t.Errorf("expected ErrNotArchived, got %v", err)
	}
}
