package docset

import "context"

// Page represents a fetched documentation page.
type Page struct {
	// Normalized source URL (no fragment, no trailing slash except root).
	URL string

	// Bundle-relative path under Documents/ where the page is written.
	// Deterministic function of URL; see OfflinePath.
	OfflinePath string

	// Raw response body as fetched.
	Body []byte

	// Media type reported by the server, e.g. "text/html".
	ContentType string

	// Page title extracted during parsing. Empty until parsed.
	Title string

	// Content hash of Body, used for cache manifests and change detection.
	ContentHash string

	// Discovery sequence number assigned by the crawler. Informational;
	// deterministic output ordering is by URL, not Seq.
	Seq int
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.OfflinePath == "" {
		return Errorf(EINVALID, "page offline path required")
	}
	return nil
}

// Asset represents a static resource referenced by a page (stylesheet,
// script, image, icon). Assets are stored in the bundle but never indexed.
type Asset struct {
	URL         string
	OfflinePath string
	Body        []byte
	ContentType string
}

// FetchResult is the raw outcome of fetching a single URL.
type FetchResult struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves raw content from URLs.
// Implementations may use plain HTTP, a cache, or browser automation
// for JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response body and media type.
	// The context controls timeout and cancellation. Failures are reported
	// as application errors: ETIMEOUT for deadline expiry, EUNAVAILABLE for
	// network and server errors, ENOTFOUND for missing pages.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// URLSource discovers documentation URLs for a site.
// Implementations hide the discovery mechanism (llms.txt manifest,
// sitemap, robots.txt directives).
type URLSource interface {
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// CrawlProgress reports progress during a crawl.
type CrawlProgress struct {
	URL       string
	Completed int
	Queued    int
	Err       error
}

// CrawlProgressFunc is called as pages are processed.
type CrawlProgressFunc func(CrawlProgress)
