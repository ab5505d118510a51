package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/pyrip"
)

// scrapeEnvelope is the response wrapper returned by the scrape endpoint.
type scrapeEnvelope struct {
	Success bool           `json:"success"`
	Data    pyrip.Document `json:"data"`
	Error   string         `json:"error"`
}

// Scrape scrapes a single URL and returns the extracted document.
func (c *Client) Scrape(ctx context.Context, url string, options map[string]any) (pyrip.Document, error) {
	const action = "scrape URL"

	var envelope scrapeEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/scrape", requestBody(url, options), nil, &envelope, action); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Data == nil {
		msg := envelope.Error
		if msg == "" {
			msg = "malformed response"
		}
		return nil, pyrip.Errorf(pyrip.EREQUEST, "failed to %s: %s", action, msg)
	}

	c.logger.Debug("scraped URL", "url", url)

	return envelope.Data, nil
}

// Search is not supported by API v1. It returns ENOTIMPLEMENTED without
// issuing a request.
func (c *Client) Search(ctx context.Context, query string, options map[string]any) ([]pyrip.Document, error) {
	return nil, pyrip.Errorf(pyrip.ENOTIMPLEMENTED, "search is not supported in v1")
}

// requestBody merges caller options over the fixed url key. Options take
// precedence on collision, except url itself which is always the argument.
func requestBody(url string, options map[string]any) map[string]any {
	body := make(map[string]any, len(options)+1)
	for k, v := range options {
		body[k] = v
	}
	body["url"] = url
	return body
}
