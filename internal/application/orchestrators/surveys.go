package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"genesis/internal/domain/survey"

	"github.com/google/uuid"
)

// SurveyStoreForManage defines the store interface needed by survey orchestrators.
type SurveyStoreForManage interface {
	GetByID(ctx context.Context, id string) (survey.Survey, error)
	Save(ctx context.Context, s survey.Survey) error
	SaveResponse(ctx context.Context, r survey.Response) error
	HasResponded(ctx context.Context, surveyID, respondent string) (bool, error)
}

// SurveyDeps holds dependencies for survey orchestrators.
type SurveyDeps struct {
	SurveyStore SurveyStoreForManage
}

// CreateSurveyInput carries input for the create-survey orchestrator.
type CreateSurveyInput struct {
	Title       string
	Description string
	CreatedBy   string
}

var ErrAlreadyResponded = errors.New("you have already responded to this survey")

// ExecuteCreateSurvey validates and persists a new survey in open status.
// PRE: CreatedBy is the account ID of a research-capable user
// POST: Survey is persisted and accepts responses
func ExecuteCreateSurvey(ctx context.Context, input CreateSurveyInput, deps SurveyDeps) (string, error) {
	s := survey.Survey{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      survey.StatusOpen,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now(),
	}
	if err := s.Validate(); err != nil {
		return "", err
	}

	if err := deps.SurveyStore.Save(ctx, s); err != nil {
		return "", err
	}

	slog.Info("survey_event", "event", "survey_created", "survey_id", s.ID)
	return s.ID, nil
}

// SubmitResponseInput carries input for the submit-response orchestrator.
type SubmitResponseInput struct {
	SurveyID   string
	Respondent string
	Answers    string
}

// ExecuteSubmitResponse validates and persists a survey response.
// PRE: Respondent is an authenticated username
// POST: Response is persisted
// INVARIANT: One response per respondent per survey
func ExecuteSubmitResponse(ctx context.Context, input SubmitResponseInput, deps SurveyDeps) (string, error) {
	s, err := deps.SurveyStore.GetByID(ctx, input.SurveyID)
	if err != nil {
		return "", err
	}

	responded, err := deps.SurveyStore.HasResponded(ctx, input.SurveyID, input.Respondent)
	if err != nil {
		return "", err
	}
	if responded {
		return "", ErrAlreadyResponded
	}

	r := survey.Response{
		ID:          uuid.New().String(),
		SurveyID:    input.SurveyID,
		Respondent:  input.Respondent,
		Answers:     input.Answers,
		SubmittedAt: time.Now(),
	}
	if err := r.Validate(&s); err != nil {
		return "", err
	}

	if err := deps.SurveyStore.SaveResponse(ctx, r); err != nil {
		return "", err
	}

	slog.Info("survey_event", "event", "response_submitted", "survey_id", s.ID, "respondent", input.Respondent)
	return r.ID, nil
}

// ExecuteCloseSurvey stops a survey from accepting further responses.
// PRE: actor has research or admin access (checked by the handler)
// POST: Survey status is closed
func ExecuteCloseSurvey(ctx context.Context, surveyID string, deps SurveyDeps) error {
	s, err := deps.SurveyStore.GetByID(ctx, surveyID)
	if err != nil {
		return err
	}
	s.Close()
	if err := deps.SurveyStore.Save(ctx, s); err != nil {
		return err
	}
	slog.Info("survey_event", "event", "survey_closed", "survey_id", s.ID)
	return nil
}
