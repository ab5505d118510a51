package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pyrip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StartCrawl(t *testing.T) {
	t.Parallel()

	t.Run("submits job and returns handle", func(t *testing.T) {
		t.Parallel()

		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/crawl", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"job-123"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		job, err := client.StartCrawl(context.Background(), pyrip.CrawlRequest{
			URL:     "https://example.com",
			Options: map[string]any{"limit": 10},
		})
		require.NoError(t, err)
		assert.Equal(t, "job-123", job.ID)
		assert.Equal(t, "https://example.com", job.URL)
		assert.False(t, job.CreatedAt.IsZero())
		assert.Equal(t, "https://example.com", gotBody["url"])
		assert.Equal(t, float64(10), gotBody["limit"])
	})

	t.Run("passes idempotency key through unchanged on every submission", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var gotKeys []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			gotKeys = append(gotKeys, r.Header.Get("x-idempotency-key"))
			mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"job-123"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		req := pyrip.CrawlRequest{URL: "https://example.com", IdempotencyKey: "key-abc"}
		for range 2 {
			_, err := client.StartCrawl(context.Background(), req)
			require.NoError(t, err)
		}

		assert.Equal(t, []string{"key-abc", "key-abc"}, gotKeys)
	})

	t.Run("rejects request without URL before any network call", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://unreachable.invalid")

		_, err := client.StartCrawl(context.Background(), pyrip.CrawlRequest{})
		require.Error(t, err)
		assert.Equal(t, pyrip.EINVALID, pyrip.ErrorCode(err))
	})

	t.Run("fails when response lacks job id", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.StartCrawl(context.Background(), pyrip.CrawlRequest{URL: "https://example.com"})
		require.Error(t, err)
		assert.Equal(t, pyrip.EREQUEST, pyrip.ErrorCode(err))
	})
}

func TestClient_CrawlStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/crawl/job-123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "scraping",
			"completed": 3,
			"total": 10,
			"creditsUsed": 3,
			"data": [{"markdown":"one"},{"markdown":"two"},{"markdown":"three"}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.CrawlStatus(context.Background(), "job-123")
	require.NoError(t, err)
	assert.Equal(t, pyrip.CrawlStatusScraping, result.Status)
	assert.Equal(t, 3, result.Completed)
	assert.Equal(t, 10, result.Total)
	assert.Len(t, result.Data, 3)
}

// scriptedStatusServer serves one canned status response per request, in
// order, repeating the last one if queried again.
func scriptedStatusServer(t *testing.T, responses []string) (*httptest.Server, *int) {
	t.Helper()

	var mu sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		i := calls
		if i >= len(responses) {
			i = len(responses) - 1
		}
		calls++
		body := responses[i]
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}))
	return server, &calls
}

func TestClient_WaitForCrawl(t *testing.T) {
	t.Parallel()

	t.Run("polls until completed and returns last snapshot", func(t *testing.T) {
		t.Parallel()

		server, calls := scriptedStatusServer(t, []string{
			`{"status":"scraping","completed":1,"total":3,"data":[{"markdown":"a"}]}`,
			`{"status":"scraping","completed":2,"total":3,"data":[{"markdown":"a"},{"markdown":"b"}]}`,
			`{"status":"completed","completed":3,"total":3,"creditsUsed":3,"data":[{"markdown":"a"},{"markdown":"b"},{"markdown":"c"}]}`,
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		const interval = 30 * time.Millisecond
		begin := time.Now()
		result, err := client.WaitForCrawl(context.Background(), "job-123", interval)
		elapsed := time.Since(begin)

		require.NoError(t, err)
		assert.Equal(t, pyrip.CrawlStatusCompleted, result.Status)
		assert.Equal(t, 3, result.Completed)
		assert.Equal(t, 3, result.CreditsUsed)
		assert.Len(t, result.Data, 3)
		assert.Equal(t, 3, *calls)
		// Two scraping snapshots mean exactly two poll intervals of waiting.
		assert.GreaterOrEqual(t, elapsed, 2*interval)
	})

	t.Run("raises job failure with server-reported reason", func(t *testing.T) {
		t.Parallel()

		server, _ := scriptedStatusServer(t, []string{
			`{"status":"scraping","completed":0,"total":5,"data":[]}`,
			`{"status":"failed","error":"seed URL unreachable","data":[]}`,
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		result, err := client.WaitForCrawl(context.Background(), "job-123", 10*time.Millisecond)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, pyrip.EJOBFAILED, pyrip.ErrorCode(err))
		assert.Contains(t, pyrip.ErrorMessage(err), "seed URL unreachable")
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		server, _ := scriptedStatusServer(t, []string{
			`{"status":"scraping","completed":0,"total":5,"data":[]}`,
		})
		defer server.Close()

		client := newTestClient(t, server.URL)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.WaitForCrawl(ctx, "job-123", time.Hour)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("propagates transport classification mid-poll", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":"out of credits"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.WaitForCrawl(context.Background(), "job-123", 10*time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, pyrip.EPAYMENT, pyrip.ErrorCode(err))
	})
}
