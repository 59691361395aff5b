package storelens

import "context"

// SearchResult is a single external search hit.
type SearchResult struct {
	Title string
	URL   string
}

// Searcher performs external web searches for competitor discovery.
type Searcher interface {
	// Search returns results for the query in engine order.
	// No results is an empty slice, not an error; transport failures on the
	// search engine itself degrade to an empty slice so a flaky engine
	// never fails the caller.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
