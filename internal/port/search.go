package port

import "context"

// SearchResult is a single hit from the external search service.
type SearchResult struct {
	Title       string
	URL         string
	Description string
	Markdown    string
}

// MedicineSearcher abstracts web search for medicine information.
type MedicineSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
