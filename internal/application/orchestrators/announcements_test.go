package orchestrators

import (
	"context"
	"errors"
	"testing"

	"genesis/internal/domain/account"
	"genesis/internal/domain/announcement"
)

type mockAnnouncementStore struct {
	announcements map[string]announcement.Announcement
}

func newMockAnnouncementStore(items ...announcement.Announcement) *mockAnnouncementStore {
	m := &mockAnnouncementStore{announcements: make(map[string]announcement.Announcement)}
	for _, a := range items {
		m.announcements[a.ID] = a
	}
	return m
}

func (m *mockAnnouncementStore) GetByID(_ context.Context, id string) (announcement.Announcement, error) {
	a, ok := m.announcements[id]
	if !ok {
		return announcement.Announcement{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAnnouncementStore) Save(_ context.Context, a announcement.Announcement) error {
	m.announcements[a.ID] = a
	return nil
}

// TestExecuteCreateAnnouncement_Draft tests saving without publishing.
func TestExecuteCreateAnnouncement_Draft(t *testing.T) {
	store := newMockAnnouncementStore()

	id, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:     "Maintenance window",
		Body:      "The platform goes **read-only** on Saturday.",
		Audience:  account.RoleUser,
		CreatedBy: "acc-1",
	}, AnnouncementDeps{AnnouncementStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.announcements[id]
	if saved.Status != announcement.StatusDraft {
		t.Errorf("expected status=draft, got %s", saved.Status)
	}
	if !saved.PublishedAt.IsZero() {
		t.Error("expected no publish timestamp on a draft")
	}
}

// TestExecuteCreateAnnouncement_PublishImmediately tests the publish-on-create path.
func TestExecuteCreateAnnouncement_PublishImmediately(t *testing.T) {
	store := newMockAnnouncementStore()

	id, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:     "Welcome",
		Body:      "Say hello",
		Audience:  account.RoleUser,
		CreatedBy: "acc-1",
		Publish:   true,
	}, AnnouncementDeps{AnnouncementStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.announcements[id]
	if saved.Status != announcement.StatusPublished {
		t.Errorf("expected status=published, got %s", saved.Status)
	}
	if saved.PublishedBy != "acc-1" {
		t.Errorf("expected PublishedBy=acc-1, got %s", saved.PublishedBy)
	}
}

// TestExecuteCreateAnnouncement_Invalid tests domain validation surfacing.
func TestExecuteCreateAnnouncement_Invalid(t *testing.T) {
	store := newMockAnnouncementStore()

	_, err := ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Body:     "no title",
		Audience: account.RoleUser,
	}, AnnouncementDeps{AnnouncementStore: store})
	if !errors.Is(err, announcement.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}

	_, err = ExecuteCreateAnnouncement(context.Background(), CreateAnnouncementInput{
		Title:    "Bad audience",
		Body:     "body",
		Audience: "Everyone",
	}, AnnouncementDeps{AnnouncementStore: store})
	if !errors.Is(err, announcement.ErrBadAudience) {
		t.Errorf("expected ErrBadAudience, got %v", err)
	}
}

// TestExecutePublishAnnouncement tests publishing a stored draft.
func TestExecutePublishAnnouncement(t *testing.T) {
	store := newMockAnnouncementStore(announcement.Announcement{
		ID: "an1", Status: announcement.StatusDraft,
		Title: "Draft", Body: "body", Audience: account.RoleUser,
	})

	if err := ExecutePublishAnnouncement(context.Background(), "an1", "acc-9", AnnouncementDeps{AnnouncementStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	saved := store.announcements["an1"]
	if saved.Status != announcement.StatusPublished {
		t.Errorf("expected status=published, got %s", saved.Status)
	}
	if saved.PublishedBy != "acc-9" {
		t.Errorf("expected PublishedBy=acc-9, got %s", saved.PublishedBy)
	}
}

// TestExecutePinAnnouncement tests the pin and unpin transitions.
func TestExecutePinAnnouncement(t *testing.T) {
	store := newMockAnnouncementStore(announcement.Announcement{
		ID: "an1", Status: announcement.StatusPublished,
		Title: "Pinned", Body: "body", Audience: account.RoleUser,
	})
	deps := AnnouncementDeps{AnnouncementStore: store}

	if err := ExecutePinAnnouncement(context.Background(), "an1", true, deps); err != nil {
		t.Fatalf("pin failed: %v", err)
	}
	if !store.announcements["an1"].Pinned {
		t.Error("expected announcement pinned")
	}

	// Pinning twice is an error
	if err := ExecutePinAnnouncement(context.Background(), "an1", true, deps); !errors.Is(err, announcement.ErrAlreadyPinned) {
		t.Errorf("expected ErrAlreadyPinned, got %v", err)
	}

	if err := ExecutePinAnnouncement(context.Background(), "an1", false, deps); err != nil {
		t.Fatalf("unpin failed: %v", err)
	}
	if store.announcements["an1"].Pinned {
		t.Error("expected announcement unpinned")
	}
}
