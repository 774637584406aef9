package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"genesis/internal/domain/announcement"

	"github.com/google/uuid"
)

// AnnouncementStoreForManage defines the store interface needed by
// announcement orchestrators.
type AnnouncementStoreForManage interface {
	GetByID(ctx context.Context, id string) (announcement.Announcement, error)
	Save(ctx context.Context, a announcement.Announcement) error
}

// AnnouncementDeps holds dependencies for announcement orchestrators.
type AnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForManage
}

// CreateAnnouncementInput carries input for the create-announcement orchestrator.
type CreateAnnouncementInput struct {
	Title     string
	Body      string
	Audience  string
	CreatedBy string
	// Publish immediately instead of saving a draft
	Publish bool
}

// ExecuteCreateAnnouncement validates and persists an announcement. The body
// is stored as raw Markdown; rendering happens at display time.
// PRE: CreatedBy is the account ID of an admin
// POST: Announcement is persisted as draft, or published when requested
func ExecuteCreateAnnouncement(ctx context.Context, input CreateAnnouncementInput, deps AnnouncementDeps) (string, error) {
	a := announcement.Announcement{
		ID:        uuid.New().String(),
		Status:    announcement.StatusDraft,
		Title:     input.Title,
		Body:      input.Body,
		Audience:  input.Audience,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now(),
	}
	if err := a.Validate(); err != nil {
		return "", err
	}
	if input.Publish {
		if err := a.Publish(input.CreatedBy); err != nil {
			return "", err
		}
	}

	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return "", err
	}

	slog.Info("announcement_event", "event", "announcement_created", "announcement_id", a.ID, "status", a.Status)
	return a.ID, nil
}

// ExecutePublishAnnouncement publishes a draft announcement.
// PRE: publisherID is the account ID of an admin
// POST: Announcement becomes visible to its audience
func ExecutePublishAnnouncement(ctx context.Context, id, publisherID string, deps AnnouncementDeps) error {
	a, err := deps.AnnouncementStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.Publish(publisherID); err != nil {
		return err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return err
	}
	slog.Info("announcement_event", "event", "announcement_published", "announcement_id", a.ID)
	return nil
}

// ExecutePinAnnouncement toggles an announcement's pin state.
// POST: Pinned announcements sort to the top of dashboard lists
func ExecutePinAnnouncement(ctx context.Context, id string, pin bool, deps AnnouncementDeps) error {
	a, err := deps.AnnouncementStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pin {
		err = a.Pin()
	} else {
		err = a.Unpin()
	}
	if err != nil {
		return err
	}
	return deps.AnnouncementStore.Save(ctx, a)
}
