package announcement

import (
	"errors"
	"time"

	"genesis/internal/domain/account"
)

// Announcement statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatuses contains all valid announcement statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished}

// Domain errors
var (
	ErrEmptyTitle    = errors.New("announcement title cannot be empty")
	ErrEmptyBody     = errors.New("announcement body cannot be empty")
	ErrInvalidStatus = errors.New("announcement status must be one of: draft, published")
	ErrBadAudience   = errors.New("announcement audience must be a valid role")
	ErrAlreadyPinned = errors.New("announcement is already pinned")
	ErrNotPinned     = errors.New("announcement is not pinned")
)

// Announcement represents a platform-wide notice shown on dashboards.
// Body supports Markdown formatting. Audience is the minimum role that sees
// the announcement: e.g. audience "User" is visible to everyone logged in,
// audience "Platform Admin" only to platform admins and above.
type Announcement struct {
	ID          string
	Status      string // draft, published
	Title       string
	Body        string // Markdown content
	Audience    string // minimum role
	CreatedBy   string // AccountID of creator
	PublishedBy string // AccountID of publisher (empty if draft)
	Pinned      bool
	PinnedAt    time.Time
	CreatedAt   time.Time
	PublishedAt time.Time
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.Body == "" {
		return ErrEmptyBody
	}
	if a.Status != StatusDraft && a.Status != StatusPublished {
		return ErrInvalidStatus
	}
	if !account.IsValidRole(a.Audience) {
		return ErrBadAudience
	}
	return nil
}

// VisibleTo returns true if a published announcement should be shown to the
// given role.
// INVARIANT: a is not mutated
func (a *Announcement) VisibleTo(role string) bool {
	if a.Status != StatusPublished {
		return false
	}
	return account.PrivilegeLevel(role) >= account.PrivilegeLevel(a.Audience)
}

// Publish transitions the announcement from draft to published.
// PRE: Status is draft
// POST: Status is published, PublishedBy/PublishedAt are set
func (a *Announcement) Publish(publisherID string) error {
	if a.Status == StatusPublished {
		return errors.New("announcement is already published")
	}
	a.Status = StatusPublished
	a.PublishedBy = publisherID
	a.PublishedAt = time.Now()
	return nil
}

// Pin pins the announcement to the top of dashboard lists.
// PRE: Announcement is not pinned
// POST: Pinned is true, PinnedAt is set
func (a *Announcement) Pin() error {
	if a.Pinned {
		return ErrAlreadyPinned
	}
	a.Pinned = true
	a.PinnedAt = time.Now()
	return nil
}

// Unpin removes the pin.
// PRE: Announcement is pinned
// POST: Pinned is false, PinnedAt is cleared
func (a *Announcement) Unpin() error {
	if !a.Pinned {
		return ErrNotPinned
	}
	a.Pinned = false
	a.PinnedAt = time.Time{}
	return nil
}
