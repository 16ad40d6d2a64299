// Package rod provides a browser-automation implementation of docset.Fetcher
// for documentation sites that render content with JavaScript.
package rod

import (
	"context"
	"errors"
	"net/url"
	"path"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/ichoosetoaccept/raycast-docset"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements docset.Fetcher at compile time.
var _ docset.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// URLs that are static resources (stylesheets, scripts, images, fonts) are
// delegated to a plain fetcher; running them through DOM serialization
// would corrupt them.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	static  docset.Fetcher
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds the time spent rendering a single page.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithStaticFetcher sets the fetcher used for non-page resources.
func WithStaticFetcher(static docset.Fetcher) Option {
	return func(f *Fetcher) {
		f.static = static
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// Static resources bypass the browser and go through the static fetcher.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*docset.FetchResult, error) {
	if f.closed.Load() {
		return nil, docset.Errorf(docset.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.static != nil && isStaticResource(rawURL) {
		return f.static.Fetch(ctx, rawURL)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, classifyRenderError(err, rawURL)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(rawURL); err != nil {
		return nil, classifyRenderError(err, rawURL)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, classifyRenderError(err, rawURL)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, classifyRenderError(err, rawURL)
	}
	f.manager.IncrementPageCount()

	return &docset.FetchResult{
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := f.manager.Close()
	if f.static != nil {
		if cerr := f.static.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// isStaticResource reports whether the URL names a file that should be
// fetched as-is rather than rendered. Extensionless paths and .html pages
// render; everything else (css, js, images, fonts) is static.
func isStaticResource(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch path.Ext(u.Path) {
	case "", ".html", ".htm":
		return false
	default:
		return true
	}
}

// classifyRenderError maps a browser failure to an application error code.
// Deadline expiry becomes ETIMEOUT; any other render failure is reported
// as EUNAVAILABLE so the crawler can retry it.
func classifyRenderError(err error, url string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return docset.Errorf(docset.ETIMEOUT, "rendering %s timed out: %v", url, err)
	}
	return docset.Errorf(docset.EUNAVAILABLE, "rendering %s failed: %v", url, err)
}
