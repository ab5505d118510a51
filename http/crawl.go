package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/pyrip"
)

// HeaderIdempotencyKey is the request header carrying the caller-supplied
// idempotency key. The value is passed through unchanged.
const HeaderIdempotencyKey = "x-idempotency-key"

// StartCrawl submits a crawl job and returns its server-issued handle.
func (c *Client) StartCrawl(ctx context.Context, req pyrip.CrawlRequest) (*pyrip.CrawlJob, error) {
	const action = "start crawl job"

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{HeaderIdempotencyKey: req.IdempotencyKey}
	}

	var accepted struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/crawl", requestBody(req.URL, req.Options), headers, &accepted, action); err != nil {
		return nil, err
	}
	if accepted.ID == "" {
		return nil, pyrip.Errorf(pyrip.EREQUEST, "failed to %s: response missing job id", action)
	}

	c.logger.Debug("crawl job started", "id", accepted.ID, "url", req.URL)

	return &pyrip.CrawlJob{
		ID:        accepted.ID,
		URL:       req.URL,
		Options:   req.Options,
		CreatedAt: time.Now(),
	}, nil
}

// CrawlStatus retrieves one status snapshot for a job.
func (c *Client) CrawlStatus(ctx context.Context, jobID string) (*pyrip.CrawlResult, error) {
	var result pyrip.CrawlResult
	if err := c.do(ctx, http.MethodGet, "/v1/crawl/"+jobID, nil, nil, &result, "check crawl status"); err != nil {
		return nil, err
	}
	return &result, nil
}

// WaitForCrawl polls job status until a terminal state is reached. Each
// snapshot replaces the in-memory aggregate wholesale; the server is
// authoritative for partial-result accumulation. No upper bound on poll
// attempts is imposed; cancellation is the caller's responsibility via ctx.
func (c *Client) WaitForCrawl(ctx context.Context, jobID string, pollInterval time.Duration) (*pyrip.CrawlResult, error) {
	for {
		result, err := c.CrawlStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch result.Status {
		case pyrip.CrawlStatusCompleted:
			return result, nil
		case pyrip.CrawlStatusFailed:
			reason := result.Error
			if reason == "" {
				reason = "no reason reported"
			}
			return nil, pyrip.Errorf(pyrip.EJOBFAILED, "crawl job %s failed: %s", jobID, reason)
		}

		c.logger.Debug("crawl job in progress",
			"id", jobID,
			"status", result.Status,
			"completed", result.Completed,
			"total", result.Total,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
