// Package http provides HTTP-backed implementations of docset.Fetcher,
// docset.URLSource, and docset.FetchPolicy for static documentation sites
// that don't require JavaScript rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ichoosetoaccept/raycast-docset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the generator in request logs and lets site
// operators attribute the crawl.
const DefaultUserAgent = "Raycast-Dash-Docset-Generator/1.0"

// Ensure Fetcher implements docset.Fetcher at compile time.
var _ docset.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the content at the given URL. Failures carry application
// error codes so the crawler can distinguish retryable conditions (timeouts,
// server errors) from permanent ones (missing pages).
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docset.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, url)
	}

	return &docset.FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classifyTransportError maps a transport-level failure to an application
// error code. Deadline expiry becomes ETIMEOUT; everything else at this
// layer (DNS failure, refused connection, reset) is EUNAVAILABLE.
func classifyTransportError(err error, url string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return docset.Errorf(docset.ETIMEOUT, "request to %s timed out: %v", url, err)
	}
	return docset.Errorf(docset.EUNAVAILABLE, "request to %s failed: %v", url, err)
}

// classifyStatus maps a non-200 response to an application error code.
// 404 and 410 mean the page does not exist; server errors and throttling
// are reported as EUNAVAILABLE so the crawler retries them.
func classifyStatus(status int, url string) error {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return docset.Errorf(docset.ENOTFOUND, "HTTP %d for %s", status, url)
	default:
		return docset.Errorf(docset.EUNAVAILABLE, "HTTP %d for %s", status, url)
	}
}
