package volunteer

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"

	TeamOutreach   = "outreach"
	TeamOperations = "operations"
	TeamResearch   = "research"
)

// ValidTeams contains all valid team values.
var ValidTeams = []string{TeamOutreach, TeamOperations, TeamResearch}

// Domain errors
var (
	ErrAlreadyArchived = errors.New("volunteer is already archived")
	ErrNotArchived     = errors.New("volunteer is not archived")
)

// Volunteer holds the profile shown on the volunteer roster. A volunteer may
// be linked to a platform account via AccountID, but guests recruited at
// events exist before they ever log in.
type Volunteer struct {
	ID        string
	AccountID string
	Email     string
	Name      string
	Team      string
	Status    string
}

// Validate checks if the Volunteer has valid data.
// PRE: Volunteer struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (v *Volunteer) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return errors.New("volunteer name cannot be empty")
	}
	if len(v.Name) > MaxNameLength {
		return errors.New("volunteer name cannot exceed 100 characters")
	}
	if !strings.Contains(v.Email, "@") {
		return errors.New("volunteer email must be valid")
	}
	if !isValidTeam(v.Team) {
		return errors.New("team must be 'outreach', 'operations', or 'research'")
	}
	if v.Status != StatusActive && v.Status != StatusInactive && v.Status != StatusArchived {
		return errors.New("status must be 'active', 'inactive', or 'archived'")
	}
	return nil
}

// IsActive returns true if the volunteer is currently active.
// INVARIANT: Status field is not mutated
func (v *Volunteer) IsActive() bool {
	return v.Status == StatusActive
}

// Archive sets the volunteer status to archived.
// PRE: Volunteer is not already archived
// POST: Status is set to archived
func (v *Volunteer) Archive() error {
	if v.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	v.Status = StatusArchived
	return nil
}

// Restore sets the volunteer status back to active.
// PRE: Volunteer is currently archived
// POST: Status is set to active
func (v *Volunteer) Restore() error {
	if v.Status != StatusArchived {
		return ErrNotArchived
	}
	v.Status = StatusActive
	return nil
}

func isValidTeam(team string) bool {
	for _, t := range ValidTeams {
		if t == team {
			return true
		}
	}
	return false
}
