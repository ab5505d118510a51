package pyrip

import "context"

// Document represents one scraped page: a mapping of extracted fields
// returned by the API. The payload is server-defined and passed through
// unmodified.
type Document map[string]any

// Scraper represents a service for single-page scrape operations.
type Scraper interface {
	// Scrape scrapes a single URL and returns the extracted document.
	// Options are merged into the request body alongside the URL; the
	// server defines which option keys are meaningful.
	Scrape(ctx context.Context, url string, options map[string]any) (Document, error)

	// Search performs a search query. Not supported by API v1; always
	// returns ENOTIMPLEMENTED.
	Search(ctx context.Context, query string, options map[string]any) ([]Document, error)
}
