package mock

import (
	"context"

	"github.com/fwojciec/pyrip"
)

var _ pyrip.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of pyrip.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string, options map[string]any) (pyrip.Document, error)
	SearchFn func(ctx context.Context, query string, options map[string]any) ([]pyrip.Document, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string, options map[string]any) (pyrip.Document, error) {
	return s.ScrapeFn(ctx, url, options)
}

func (s *Scraper) Search(ctx context.Context, query string, options map[string]any) ([]pyrip.Document, error) {
	return s.SearchFn(ctx, query, options)
}
