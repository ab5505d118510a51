package pyrip

import (
	"context"
	"time"
)

// CrawlStatus represents the lifecycle state of a crawl job.
type CrawlStatus string

// Crawl job states. Scraping is the initial state; completed and failed are
// terminal.
const (
	CrawlStatusScraping  CrawlStatus = "scraping"
	CrawlStatusCompleted CrawlStatus = "completed"
	CrawlStatusFailed    CrawlStatus = "failed"
)

// Terminal reports whether no further progress can occur in this state.
func (s CrawlStatus) Terminal() bool {
	return s == CrawlStatusCompleted || s == CrawlStatusFailed
}

// CrawlJob represents a crawl job accepted by the API. Immutable after
// creation; owned by the caller that submitted it.
type CrawlJob struct {
	ID        string         `json:"id"`
	URL       string         `json:"url"`
	Options   map[string]any `json:"options,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// CrawlResult is the aggregate state of a crawl job as reported by the
// server. Each status snapshot replaces the previous one wholesale; the
// server, not the client, is authoritative for partial-result accumulation.
type CrawlResult struct {
	Status      CrawlStatus `json:"status"`
	Completed   int         `json:"completed"`
	Total       int         `json:"total"`
	CreditsUsed int         `json:"creditsUsed"`
	ExpiresAt   *time.Time  `json:"expiresAt,omitempty"`
	Data        []Document  `json:"data"`

	// Error carries the server-reported reason when Status is failed.
	Error string `json:"error,omitempty"`
}

// CrawlRequest describes a crawl job submission.
type CrawlRequest struct {
	// URL is the seed URL to crawl from.
	URL string `json:"url"`

	// Options are merged into the request body alongside the URL. Option
	// keys take precedence on collision, except the fixed "url" key.
	Options map[string]any `json:"options,omitempty"`

	// IdempotencyKey, if set, is sent unchanged with the submission so the
	// server can deduplicate retried submissions of the same logical job.
	IdempotencyKey string `json:"-"`
}

// Validate returns an error if the request contains invalid fields.
func (r *CrawlRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "crawl URL required")
	}
	return nil
}

// CrawlWatcher streams incremental progress events for one crawl job as an
// alternative to polling. Listeners may be registered before or during the
// watch; for each event they are invoked in registration order, and a
// panicking listener does not prevent delivery to the rest.
type CrawlWatcher interface {
	// OnDocument registers a listener for newly scraped pages.
	OnDocument(fn func(Document))

	// OnDone registers a listener for the terminal event, invoked with the
	// final aggregate.
	OnDone(fn func(*CrawlResult))

	// OnError registers a listener for error events. An error event does
	// not by itself end the watch.
	OnError(fn func(error))

	// Watch opens the streaming connection and dispatches events until a
	// terminal event arrives, the peer closes the connection, or ctx is
	// canceled. The connection is released on every exit path and no
	// dispatch occurs after termination.
	Watch(ctx context.Context) error
}

// CrawlService represents a service for managing crawl jobs.
type CrawlService interface {
	// StartCrawl submits a crawl job and returns its server-issued handle.
	StartCrawl(ctx context.Context, req CrawlRequest) (*CrawlJob, error)

	// CrawlStatus retrieves one status snapshot for a job.
	CrawlStatus(ctx context.Context, jobID string) (*CrawlResult, error)

	// WaitForCrawl polls job status at the given interval until a terminal
	// state is reached. Returns the final aggregate on completion, or
	// EJOBFAILED if the job fails. No upper bound on poll attempts is
	// imposed; cancel via ctx.
	WaitForCrawl(ctx context.Context, jobID string, pollInterval time.Duration) (*CrawlResult, error)
}
