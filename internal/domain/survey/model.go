package survey

import (
	"encoding/json"
	"errors"
	"time"
)

// Survey statuses
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("survey title is required")
	ErrInvalidStatus   = errors.New("survey status must be open or closed")
	ErrSurveyClosed    = errors.New("survey is closed to new responses")
	ErrEmptyRespondent = errors.New("respondent username is required")
	ErrBadAnswers      = errors.New("answers must be a valid JSON object")
)

// Survey represents a research questionnaire run on the platform.
type Survey struct {
	ID          string
	Title       string
	Description string
	Status      string // open, closed
	CreatedBy   string // AccountID of creator
	CreatedAt   time.Time
	ClosedAt    time.Time
}

// Response records one completed survey submission. Answers is an opaque
// JSON object keyed by question identifier; the platform stores and counts
// responses but does not interpret individual answers.
type Response struct {
	ID          string
	SurveyID    string
	Respondent  string // username
	Answers     string // JSON object
	SubmittedAt time.Time
}

// Validate checks if the Survey has valid data.
// PRE: Survey struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Survey) Validate() error {
	if s.Title == "" {
		return ErrEmptyTitle
	}
	if s.Status != StatusOpen && s.Status != StatusClosed {
		return ErrInvalidStatus
	}
	return nil
}

// Close marks the survey as closed to new responses.
// POST: Status is closed, ClosedAt is set
func (s *Survey) Close() {
	if s.Status == StatusClosed {
		return
	}
	s.Status = StatusClosed
	s.ClosedAt = time.Now()
}

// IsOpen returns true if the survey accepts responses.
// INVARIANT: s is not mutated
func (s *Survey) IsOpen() bool {
	return s.Status == StatusOpen
}

// Validate checks if the Response has valid data against its survey.
// PRE: survey is the Response's parent survey
// POST: Returns nil if valid, error otherwise
func (r *Response) Validate(survey *Survey) error {
	if r.Respondent == "" {
		return ErrEmptyRespondent
	}
	if !survey.IsOpen() {
		return ErrSurveyClosed
	}
	var probe map[string]any
	if err := json.Unmarshal([]byte(r.Answers), &probe); err != nil {
		return ErrBadAnswers
	}
	return nil
}
