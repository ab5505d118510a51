package mock

import (
	"context"
	"time"

	"github.com/fwojciec/pyrip"
)

var _ pyrip.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of pyrip.CrawlService.
type CrawlService struct {
	StartCrawlFn   func(ctx context.Context, req pyrip.CrawlRequest) (*pyrip.CrawlJob, error)
	CrawlStatusFn  func(ctx context.Context, jobID string) (*pyrip.CrawlResult, error)
	WaitForCrawlFn func(ctx context.Context, jobID string, pollInterval time.Duration) (*pyrip.CrawlResult, error)
}

func (s *CrawlService) StartCrawl(ctx context.Context, req pyrip.CrawlRequest) (*pyrip.CrawlJob, error) {
	return s.StartCrawlFn(ctx, req)
}

func (s *CrawlService) CrawlStatus(ctx context.Context, jobID string) (*pyrip.CrawlResult, error) {
	return s.CrawlStatusFn(ctx, jobID)
}

func (s *CrawlService) WaitForCrawl(ctx context.Context, jobID string, pollInterval time.Duration) (*pyrip.CrawlResult, error) {
	return s.WaitForCrawlFn(ctx, jobID, pollInterval)
}

var _ pyrip.CrawlWatcher = (*CrawlWatcher)(nil)

// CrawlWatcher is a mock implementation of pyrip.CrawlWatcher.
type CrawlWatcher struct {
	OnDocumentFn func(fn func(pyrip.Document))
	OnDoneFn     func(fn func(*pyrip.CrawlResult))
	OnErrorFn    func(fn func(error))
	WatchFn      func(ctx context.Context) error
}

func (w *CrawlWatcher) OnDocument(fn func(pyrip.Document)) {
	w.OnDocumentFn(fn)
}

func (w *CrawlWatcher) OnDone(fn func(*pyrip.CrawlResult)) {
	w.OnDoneFn(fn)
}

func (w *CrawlWatcher) OnError(fn func(error)) {
	w.OnErrorFn(fn)
}

func (w *CrawlWatcher) Watch(ctx context.Context) error {
	return w.WatchFn(ctx)
}
