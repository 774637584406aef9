package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"genesis/internal/domain/volunteer"

	"github.com/google/uuid"
)

// VolunteerStoreForManage defines the store interface needed by volunteer
// orchestrators.
type VolunteerStoreForManage interface {
	GetByID(ctx context.Context, id string) (volunteer.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (volunteer.Volunteer, error)
	Save(ctx context.Context, v volunteer.Volunteer) error
}

// VolunteerDeps holds dependencies for volunteer orchestrators.
type VolunteerDeps struct {
	VolunteerStore VolunteerStoreForManage
}

// AddVolunteerInput carries input for the add-volunteer orchestrator.
type AddVolunteerInput struct {
	Name      string
	Email     string
	Team      string
	AccountID string
}

var ErrVolunteerEmailExists = errors.New("a volunteer with this email already exists")

// ExecuteAddVolunteer registers a new volunteer on a team.
// PRE: Email is unique across volunteers
// POST: Volunteer is persisted with active status
func ExecuteAddVolunteer(ctx context.Context, input AddVolunteerInput, deps VolunteerDeps) (string, error) {
	if _, err := deps.VolunteerStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrVolunteerEmailExists
	}

	v := volunteer.Volunteer{
		ID:        uuid.New().String(),
		AccountID: input.AccountID,
		Name:      input.Name,
		Email:     input.Email,
		Team:      input.Team,
		Status:    volunteer.StatusActive,
	}
	if err := v.Validate(); err != nil {
		return "", err
	}

	if err := deps.VolunteerStore.Save(ctx, v); err != nil {
		return "", err
	}

	slog.Info("volunteer_event", "event", "volunteer_added", "volunteer_id", v.ID, "team", v.Team)
	return v.ID, nil
}

// ExecuteArchiveVolunteer archives a volunteer, removing them from active
// team rosters without losing their record.
// POST: Volunteer status is archived
func ExecuteArchiveVolunteer(ctx context.Context, id string, deps VolunteerDeps) error {
	v, err := deps.VolunteerStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := v.Archive(); err != nil {
		return err
	}
	if err := deps.VolunteerStore.Save(ctx, v); err != nil {
		return err
	}
	slog.Info("volunteer_event", "event", "volunteer_archived", "volunteer_id", v.ID)
	return nil
}

// ExecuteRestoreVolunteer returns an archived volunteer to active status.
// POST: Volunteer status is active
func ExecuteRestoreVolunteer(ctx context.Context, id string, deps VolunteerDeps) error {
	v, err := deps.VolunteerStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := v.Restore(); err != nil {
		return err
	}
	if err := deps.VolunteerStore.Save(ctx, v); err != nil {
		return err
	}
	slog.Info("volunteer_event", "event", "volunteer_restored", "volunteer_id", v.ID)
	return nil
}
