// Package websocket provides the streaming implementation of
// pyrip.CrawlWatcher. It opens one websocket connection per watched job and
// translates server-framed messages into listener dispatch while
// maintaining the same aggregate a status poller would.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fwojciec/pyrip"
	pyriphttp "github.com/fwojciec/pyrip/http"
	pyripslog "github.com/fwojciec/pyrip/slog"
)

// Event kinds recognized from the stream. Framing is server-defined; the
// watcher parses it, it does not design it.
const (
	eventDocument = "document"
	eventDone     = "done"
	eventError    = "error"
)

// Ensure Watcher implements pyrip.CrawlWatcher at compile time.
var _ pyrip.CrawlWatcher = (*Watcher)(nil)

// message is one frame from the job's event stream.
type message struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Watcher watches one crawl job's progress over a streaming connection.
// Listener registration is safe while Watch runs; the aggregate is mutated
// only by the watch loop.
type Watcher struct {
	jobID   string
	apiKey  string
	baseURL string
	wsURL   string
	logger  *slog.Logger
	dialer  *websocket.Dialer

	mu         sync.Mutex
	onDocument []func(pyrip.Document)
	onDone     []func(*pyrip.CrawlResult)
	onError    []func(error)
	result     pyrip.CrawlResult
	done       bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithAPIKey sets the API key, overriding the PYRIP_API_KEY environment
// variable.
func WithAPIKey(key string) Option {
	return func(w *Watcher) {
		w.apiKey = key
	}
}

// WithBaseURL sets the HTTP API base URL the stream URL is derived from,
// overriding the PYRIP_API_URL environment variable and the production
// default. The scheme is swapped to its streaming equivalent.
func WithBaseURL(u string) Option {
	return func(w *Watcher) {
		w.baseURL = u
	}
}

// WithLogger sets the logger for this watcher.
// Defaults to the process-wide logger if not specified.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a watcher bound to one job identifier. The initial
// aggregate state is scraping with an empty document list.
func NewWatcher(jobID string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		jobID:  jobID,
		dialer: websocket.DefaultDialer,
		result: pyrip.CrawlResult{Status: pyrip.CrawlStatusScraping},
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.jobID == "" {
		return nil, pyrip.Errorf(pyrip.EINVALID, "crawl job ID required")
	}
	if w.apiKey == "" {
		w.apiKey = os.Getenv(pyriphttp.EnvAPIKey)
	}
	if w.apiKey == "" {
		return nil, pyrip.Errorf(pyrip.EINVALID, "no API key provided")
	}
	if w.baseURL == "" {
		w.baseURL = os.Getenv(pyriphttp.EnvAPIURL)
	}
	if w.baseURL == "" {
		w.baseURL = pyriphttp.DefaultBaseURL
	}
	wsURL, err := streamURL(w.baseURL, jobID)
	if err != nil {
		return nil, err
	}
	w.wsURL = wsURL
	if w.logger == nil {
		w.logger = pyripslog.Default()
	}

	return w, nil
}

// streamURL derives the job's streaming endpoint from the HTTP base URL by
// swapping the scheme to its streaming equivalent and appending the job ID.
func streamURL(baseURL, jobID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", pyrip.Errorf(pyrip.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", pyrip.Errorf(pyrip.EINVALID, "unsupported base URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/crawl/" + jobID
	return u.String(), nil
}

// OnDocument registers a listener for newly scraped pages.
func (w *Watcher) OnDocument(fn func(pyrip.Document)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDocument = append(w.onDocument, fn)
}

// OnDone registers a listener for the terminal event.
func (w *Watcher) OnDone(fn func(*pyrip.CrawlResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDone = append(w.onDone, fn)
}

// OnError registers a listener for error events.
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// Status returns the current aggregate status.
func (w *Watcher) Status() pyrip.CrawlStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result.Status
}

// Data returns a copy of the documents accumulated so far, in arrival order.
func (w *Watcher) Data() []pyrip.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.result.Data)
}

// Watch opens the streaming connection and reads frames on the calling
// goroutine until a done event arrives, the peer closes the connection, or
// ctx is canceled. All listeners for one event complete before the next
// frame is read, preserving document-append order in the aggregate.
func (w *Watcher) Watch(ctx context.Context) error {
	const action = "watch crawl job"

	header := http.Header{"Authorization": []string{"Bearer " + w.apiKey}}
	conn, _, err := w.dialer.DialContext(ctx, w.wsURL, header)
	if err != nil {
		return pyrip.Errorf(pyrip.EREQUEST, "failed to %s: %v", action, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the caller cancels the watch.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	w.logger.Debug("watching crawl job", "id", w.jobID, "url", w.wsURL)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return pyrip.Errorf(pyrip.EREQUEST, "failed to %s: %v", action, err)
		}

		var msg message
		if err := json.Unmarshal(payload, &msg); err != nil {
			w.logger.Debug("discarding unparseable stream message", "id", w.jobID, "err", err)
			continue
		}

		if terminal := w.handle(msg); terminal {
			return nil
		}
	}
}

// handle processes one frame and reports whether it was terminal.
func (w *Watcher) handle(msg message) bool {
	w.mu.Lock()
	if w.done {
		// Terminal event already dispatched; drop anything that follows.
		w.mu.Unlock()
		return true
	}
	w.mu.Unlock()

	switch msg.Type {
	case eventDocument:
		var doc pyrip.Document
		if err := json.Unmarshal(msg.Data, &doc); err != nil {
			w.logger.Debug("discarding malformed document event", "id", w.jobID, "err", err)
			return false
		}

		w.mu.Lock()
		w.result.Data = append(w.result.Data, doc)
		w.result.Completed = len(w.result.Data)
		listeners := slices.Clone(w.onDocument)
		w.mu.Unlock()

		for _, fn := range listeners {
			w.dispatch(eventDocument, func() { fn(doc) })
		}
		return false

	case eventDone:
		var upd pyrip.CrawlResult
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &upd); err != nil {
				w.logger.Debug("discarding malformed done payload", "id", w.jobID, "err", err)
			}
		}

		w.mu.Lock()
		if upd.Status.Terminal() {
			w.result.Status = upd.Status
		} else {
			w.result.Status = pyrip.CrawlStatusCompleted
		}
		if upd.Completed > 0 {
			w.result.Completed = upd.Completed
		}
		if upd.Total > 0 {
			w.result.Total = upd.Total
		}
		if upd.CreditsUsed > 0 {
			w.result.CreditsUsed = upd.CreditsUsed
		}
		if upd.ExpiresAt != nil {
			w.result.ExpiresAt = upd.ExpiresAt
		}
		if upd.Error != "" {
			w.result.Error = upd.Error
		}
		// The server's terminal snapshot is authoritative when it carries
		// documents; otherwise keep the locally accumulated list.
		if len(upd.Data) > 0 {
			w.result.Data = upd.Data
		}
		final := w.result
		w.done = true
		listeners := slices.Clone(w.onDone)
		w.mu.Unlock()

		for _, fn := range listeners {
			w.dispatch(eventDone, func() { fn(&final) })
		}
		return true

	case eventError:
		reason := msg.Error
		if reason == "" && len(msg.Data) > 0 {
			reason = string(msg.Data)
		}
		err := pyrip.Errorf(pyrip.EREQUEST, "crawl job %s reported an error: %s", w.jobID, reason)

		w.mu.Lock()
		listeners := slices.Clone(w.onError)
		w.mu.Unlock()

		for _, fn := range listeners {
			w.dispatch(eventError, func() { fn(err) })
		}
		return false

	default:
		w.logger.Debug("ignoring unknown stream event", "id", w.jobID, "type", msg.Type)
		return false
	}
}

// dispatch invokes one listener, isolating panics so later listeners for
// the same event still run.
func (w *Watcher) dispatch(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("crawl watcher listener panicked", "id", w.jobID, "event", event, "panic", r)
		}
	}()
	fn()
}
