package orchestrators

import (
	"context"
	"strings"
	"time"

	"genesis/internal/domain/search"

	"github.com/google/uuid"
)

// SearchStoreForRecord defines the store interface needed by RecordSearch.
type SearchStoreForRecord interface {
	Record(ctx context.Context, e search.Entry) error
}

// ExecuteRecordSearch saves one query into the user's search history. Blank
// queries are ignored rather than rejected so callers can record
// unconditionally.
// PRE: username is an authenticated username
// POST: Entry is persisted; history stays within the retention cap
func ExecuteRecordSearch(ctx context.Context, username, query, page string, store SearchStoreForRecord) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	e := search.Entry{
		ID:         uuid.New().String(),
		Username:   username,
		Query:      query,
		Page:       page,
		SearchedAt: time.Now(),
	}
	if err := e.Validate(); err != nil {
		return err
	}
	return store.Record(ctx, e)
}
