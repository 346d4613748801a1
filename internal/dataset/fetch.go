package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default fetch configuration.
const (
	defaultFetchTimeout = 20 * time.Second
	defaultUserAgent    = "pitchboard/1.0"
)

// Fetcher retrieves one tabular resource by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher fetches CSV resources over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// FetchOption applies a configuration option to the HTTPFetcher.
type FetchOption func(*HTTPFetcher)

// WithTimeout bounds each fetch.
func WithTimeout(timeout time.Duration) FetchOption {
	return func(f *HTTPFetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) FetchOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(client *http.Client) FetchOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewHTTPFetcher creates a fetcher with configuration options.
func NewHTTPFetcher(opts ...FetchOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a GET and returns the body. Non-2xx statuses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrLoad, url, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrLoad, url, resp.StatusCode)
	}
	return resp.Body, nil
}
