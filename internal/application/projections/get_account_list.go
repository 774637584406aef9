package projections

import (
	"context"

	accountStore "genesis/internal/adapters/storage/account"
	"genesis/internal/domain/account"
)

// AccountListStore defines the account store interface needed by the list
// projection.
type AccountListStore interface {
	List(ctx context.Context, filter accountStore.ListFilter) ([]account.Account, error)
	Count(ctx context.Context) (int, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]account.Account, error)
}

// GetAccountListQuery carries input for the account list projection.
type GetAccountListQuery struct {
	Search string
	Role   string
	Status string
	Page   int
	Size   int
}

// AccountListResult carries one page of accounts plus paging data.
type AccountListResult struct {
	Accounts []account.Account
	Total    int
	Page     int
	Pages    int
}

// QueryGetAccountList returns a filtered, paged account listing for the
// administration pages. A search term bypasses role/status filters.
func QueryGetAccountList(ctx context.Context, query GetAccountListQuery, store AccountListStore) (AccountListResult, error) {
	if query.Size <= 0 || query.Size > 100 {
		query.Size = 25
	}
	if query.Page < 1 {
		query.Page = 1
	}

	if query.Search != "" {
		accounts, err := store.SearchByUsername(ctx, query.Search, query.Size)
		if err != nil {
			return AccountListResult{}, err
		}
		return AccountListResult{Accounts: accounts, Total: len(accounts), Page: 1, Pages: 1}, nil
	}

	total, err := store.Count(ctx)
	if err != nil {
		return AccountListResult{}, err
	}

	accounts, err := store.List(ctx, accountStore.ListFilter{
		Role:   query.Role,
		Status: query.Status,
		Limit:  query.Size,
		Offset: (query.Page - 1) * query.Size,
	})
	if err != nil {
		return AccountListResult{}, err
	}

	pages := (total + query.Size - 1) / query.Size
	if pages < 1 {
		pages = 1
	}
	return AccountListResult{Accounts: accounts, Total: total, Page: query.Page, Pages: pages}, nil
}
