package search

import (
	"errors"
	"strings"
	"time"
)

// MaxEntriesPerUser caps the retained history; older entries are pruned.
const MaxEntriesPerUser = 20

// Entry records one search a user performed.
type Entry struct {
	ID         string
	Username   string
	Query      string
	Page       string // page identifier where the search was made
	SearchedAt time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.Username == "" {
		return errors.New("search entry username is required")
	}
	if strings.TrimSpace(e.Query) == "" {
		return errors.New("search query cannot be empty")
	}
	return nil
}
