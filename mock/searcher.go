package mock

import (
	"context"

	"github.com/storelens/storelens"
)

var _ storelens.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of storelens.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]storelens.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]storelens.SearchResult, error) {
	return s.SearchFn(ctx, query)
}
