package survey

import (
	"context"

	domain "genesis/internal/domain/survey"
)

// Store defines the persistence interface for surveys and their responses.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Survey, error)
	Save(ctx context.Context, value domain.Survey) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeClosed bool) ([]domain.Survey, error)
	SaveResponse(ctx context.Context, value domain.Response) error
	ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error)
	HasResponded(ctx context.Context, surveyID, respondent string) (bool, error)
}
