package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/fwojciec/pyrip"
)

// do performs one authenticated exchange and decodes the 200 response body
// into out. Any other outcome is classified into a typed error annotated
// with the attempted action. No retries are performed at this layer.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any, action string) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return transportError(err, action)
	}
	if resp.StatusCode() != http.StatusOK {
		return classify(resp, action)
	}
	return nil
}

// classify maps a non-200 response to a typed error, carrying the
// server-supplied error message when present.
func classify(resp *resty.Response, action string) error {
	status := resp.StatusCode()
	detail := ""
	if msg := serverMessage(resp.Body()); msg != "" {
		detail = ": " + msg
	}

	switch {
	case status == http.StatusPaymentRequired:
		return pyrip.Errorf(pyrip.EPAYMENT, "failed to %s: payment required%s", action, detail)
	case status == http.StatusRequestTimeout:
		return pyrip.Errorf(pyrip.ETIMEOUT, "failed to %s: request timed out%s", action, detail)
	case status == http.StatusConflict:
		return pyrip.Errorf(pyrip.ECONFLICT, "failed to %s: conflict%s", action, detail)
	case status >= http.StatusInternalServerError:
		return pyrip.Errorf(pyrip.EINTERNAL, "failed to %s: server error (HTTP %d)%s", action, status, detail)
	default:
		return pyrip.Errorf(pyrip.EREQUEST, "failed to %s: unexpected status (HTTP %d)%s", action, status, detail)
	}
}

// transportError classifies a failure that produced no HTTP response.
func transportError(err error, action string) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pyrip.Errorf(pyrip.ETIMEOUT, "failed to %s: request timed out: %v", action, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pyrip.Errorf(pyrip.ETIMEOUT, "failed to %s: request timed out: %v", action, err)
	}
	return pyrip.Errorf(pyrip.EREQUEST, "failed to %s: %v", action, err)
}

// serverMessage extracts the "error" field from a response body, if any.
func serverMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}
