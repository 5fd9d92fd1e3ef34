package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/observability"
)

// DefaultBaseURL is the root of the Toggl v8 API.
const DefaultBaseURL = "https://www.toggl.com/api/v8"

const userAgent = "toggl-entries"

// ErrMissingToken is wrapped in the TransportError returned by Do when the
// client has no API token.
var ErrMissingToken = errors.New("toggl: missing api token")

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 4096

// Client implements ports.Transport and the workspace/project fetchers
// against the Toggl v8 API.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(baseURL, apiToken string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Do sends one request. A non-nil body is encoded as JSON. It returns the
// response body of a 2xx answer; every other outcome is a *domain.TransportError,
// with ErrNotFound wrapped for 404s.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	u := c.baseURL + path
	if c.apiToken == "" {
		return nil, &domain.TransportError{Method: method, URL: u, Err: ErrMissingToken}
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.TransportError{Method: method, URL: u, Err: fmt.Errorf("encoding body: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URL: u, Err: err}
	}
	// Basic auth: token:api_token
	req.SetBasicAuth(c.apiToken, "api_token")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.RecordRequest(method, path, 0, time.Since(start))
		return nil, &domain.TransportError{Method: method, URL: u, Err: err}
	}
	defer resp.Body.Close()
	observability.RecordRequest(method, path, resp.StatusCode, time.Since(start))
	c.log.Debug("toggl request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		te := &domain.TransportError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
		if resp.StatusCode == http.StatusNotFound {
			te.Err = domain.ErrNotFound
		}
		return nil, te
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Method: method, URL: u, StatusCode: resp.StatusCode, Err: err}
	}
	return b, nil
}
