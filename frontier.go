package docset

import "context"

// URLFrontier manages a crawl queue with exactly-once admission.
type URLFrontier interface {
	// Push adds a URL to the queue.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the next URL in admission order.
	// Returns false if the frontier is empty.
	Pop() (url string, ok bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// FetchPolicy decides whether a URL may be fetched at all.
// Implementations typically consult the site's robots.txt.
type FetchPolicy interface {
	Allow(url string) bool
}
