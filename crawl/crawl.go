// Package crawl provides breadth-first documentation crawling.
// It coordinates URL admission, fetching with retry, link discovery,
// and asset capture, and reports every URL it gave up on as part of
// the result rather than failing the crawl.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ichoosetoaccept/raycast-docset"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for the admission pre-test.
	frontierFalsePositiveRate = 0.01
	// defaultMaxPages limits the number of pages fetched to prevent runaway crawls.
	defaultMaxPages = 10000
	// defaultConcurrency is the fetch worker pool size when none is configured.
	defaultConcurrency = 10
)

// Crawler walks a documentation site breadth-first from a set of seed
// URLs and returns every in-scope page exactly once, together with the
// static assets those pages reference.
type Crawler struct {
	Fetcher docset.Fetcher
	Links   docset.LinkExtractor
	Scope   *docset.Scope

	// Policy, when set, can veto URLs before they are fetched
	// (robots.txt). Vetoed URLs are reported as skipped.
	Policy docset.FetchPolicy

	// Limiter, when set, paces requests per domain.
	Limiter docset.DomainLimiter

	// Logger, when set, receives retry and skip diagnostics.
	Logger *slog.Logger

	// Progress, when set, is called as URLs complete.
	Progress docset.CrawlProgressFunc

	Concurrency int
	RetryDelays []time.Duration

	// MaxPages caps the number of pages fetched. Zero means the default
	// cap; the crawl logs a warning when the cap cuts it short.
	MaxPages int
}

// Skipped records a URL the crawler gave up on and why.
type Skipped struct {
	URL      string
	Attempts int
	Err      error
}

// Result holds the outcome of a crawl. Pages, Assets and Skipped are
// sorted by URL so the same site always yields the same result, whatever
// order the fetches completed in.
type Result struct {
	Pages   []*docset.Page
	Assets  []*docset.Asset
	Skipped []Skipped

	// Bytes is the total size of fetched page and asset bodies.
	Bytes int
}

// pageResult holds the outcome of processing a single page URL.
type pageResult struct {
	url      string
	seq      int
	page     *docset.Page
	links    []string
	assets   []string
	attempts int
	err      error
}

// Run crawls breadth-first from the seed URLs until the frontier is
// exhausted. Fetch failures are retried with backoff; URLs that keep
// failing are recorded in Result.Skipped with their last error. Run
// returns an error only for invalid configuration or cancellation.
func (c *Crawler) Run(ctx context.Context, seeds []string) (*Result, error) {
	if c.Fetcher == nil {
		return nil, docset.Errorf(docset.EINVALID, "crawler requires a fetcher")
	}
	if c.Links == nil {
		return nil, docset.Errorf(docset.EINVALID, "crawler requires a link extractor")
	}
	if c.Scope == nil {
		return nil, docset.Errorf(docset.EINVALID, "crawler requires a scope")
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var result Result
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)

	// Asset references collected from pages, in first-seen order.
	// Fetched in a second phase once all pages are known.
	assetSeen := make(map[string]struct{})
	var assetURLs []string

	// URLs vetoed by policy never enter the frontier, so track them
	// separately to report each exactly once.
	vetoed := make(map[string]struct{})

	// admitPage normalizes and scope-checks a candidate URL and pushes it
	// on the frontier. Out-of-scope URLs are dropped silently; in-scope
	// URLs vetoed by policy are recorded as skipped. Called only from the
	// coordinator goroutine.
	admitPage := func(raw string) {
		norm, err := docset.NormalizeURL(raw)
		if err != nil {
			return
		}
		if !c.Scope.AllowsPage(norm) {
			return
		}
		if frontier.Seen(norm) {
			return
		}
		if c.Policy != nil && !c.Policy.Allow(norm) {
			if _, dup := vetoed[norm]; !dup {
				vetoed[norm] = struct{}{}
				result.Skipped = append(result.Skipped, Skipped{
					URL: norm,
					Err: docset.Errorf(docset.EUNAVAILABLE, "blocked by fetch policy"),
				})
				c.logWarn("url blocked by fetch policy", "url", norm)
			}
			return
		}
		frontier.Push(norm)
	}

	admitAsset := func(raw string) {
		norm, err := docset.NormalizeAssetURL(raw)
		if err != nil {
			return
		}
		if !c.Scope.AllowsAsset(norm) {
			return
		}
		if frontier.Seen(norm) {
			// Already crawled as a page; stored once either way.
			return
		}
		if _, dup := assetSeen[norm]; dup {
			return
		}
		assetSeen[norm] = struct{}{}
		assetURLs = append(assetURLs, norm)
	}

	for _, seed := range seeds {
		admitPage(seed)
	}

	// Channels for worker coordination.
	type workItem struct {
		url string
		seq int
	}
	workCh := make(chan workItem, concurrency)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				res := c.processPage(ctx, work.url, work.seq)
				select {
				case resultCh <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Close result channel when all workers are done.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	completed := 0
	handleResult := func(res *pageResult) {
		completed++
		if res.err != nil {
			result.Skipped = append(result.Skipped, Skipped{
				URL:      res.url,
				Attempts: res.attempts,
				Err:      res.err,
			})
			c.logWarn("page skipped", "url", res.url, "attempts", res.attempts, "err", res.err)
		} else {
			result.Pages = append(result.Pages, res.page)
			result.Bytes += len(res.page.Body)
			for _, link := range res.links {
				admitPage(link)
			}
			for _, asset := range res.assets {
				admitAsset(asset)
			}
		}
		if c.Progress != nil {
			c.Progress(docset.CrawlProgress{
				URL:       res.url,
				Completed: completed,
				Queued:    frontier.Len(),
				Err:       res.err,
			})
		}
	}

	// Coordinator loop. Dispatching and result handling share one
	// select so workers never deadlock against a full work channel.
	dispatched := 0
	pending := 0
	var next *workItem
	if u, ok := frontier.Pop(); ok {
		next = &workItem{url: u, seq: dispatched}
	}

coordinatorLoop:
	for {
		// Done when nothing is in flight and nothing more can be
		// dispatched, either because the frontier is drained or the
		// page cap is reached.
		if pending == 0 && (next == nil || dispatched >= maxPages) {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if next != nil && dispatched < maxPages {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handleResult(&res)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				handleResult(&res)
			}
		}

		if next == nil && dispatched < maxPages {
			if u, ok := frontier.Pop(); ok {
				next = &workItem{url: u, seq: dispatched}
			}
		}
	}

	// Signal workers to stop and drain remaining in-flight results.
	close(workCh)
	drainTimeout := time.After(5 * time.Second)
drainLoop:
	for {
		select {
		case res, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			handleResult(&res)
		case <-drainTimeout:
			break drainLoop
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl canceled after %d pages: %w", len(result.Pages), err)
	}

	if next != nil || frontier.Len() > 0 {
		c.logWarn("page cap reached with URLs still queued",
			"cap", maxPages, "queued", frontier.Len())
	}

	// A URL that was both referenced as an asset and crawled as a page
	// is already stored; keep only true assets.
	kept := assetURLs[:0]
	for _, u := range assetURLs {
		if !frontier.Seen(u) {
			kept = append(kept, u)
		}
	}
	assetURLs = kept

	// Second phase: fetch the assets the pages referenced.
	if err := c.fetchAssets(ctx, assetURLs, &result); err != nil {
		return nil, err
	}

	sortResult(&result)
	return &result, nil
}

// processPage fetches one URL and extracts its outbound references.
// A reference extraction failure is not fatal to the page: the content
// is still bundled, the crawl just cannot follow its links.
func (c *Crawler) processPage(ctx context.Context, pageURL string, seq int) pageResult {
	res := pageResult{url: pageURL, seq: seq}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, hostOf(pageURL)); err != nil {
			res.err = err
			return res
		}
	}

	fetched, attempts, err := c.fetchWithRetry(ctx, pageURL)
	res.attempts = attempts
	if err != nil {
		res.err = err
		return res
	}

	offlinePath, err := docset.OfflinePath(pageURL)
	if err != nil {
		res.err = err
		return res
	}

	page := &docset.Page{
		URL:         pageURL,
		OfflinePath: offlinePath,
		Body:        fetched.Body,
		ContentType: fetched.ContentType,
		ContentHash: computeHash(fetched.Body),
		Seq:         seq,
	}
	res.page = page

	if isHTML(fetched.ContentType) {
		links, err := c.Links.ExtractLinks(page)
		if err != nil {
			c.logWarn("link extraction failed", "url", pageURL, "err", err)
		} else {
			res.links = links
		}
		assets, err := c.Links.ExtractAssets(page)
		if err != nil {
			c.logWarn("asset extraction failed", "url", pageURL, "err", err)
		} else {
			res.assets = assets
		}
	}

	return res
}

// fetchAssets retrieves every referenced asset with the same retry and
// pacing discipline as pages. Failures become skipped entries.
func (c *Crawler) fetchAssets(ctx context.Context, urls []string, result *Result) error {
	if len(urls) == 0 {
		return nil
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	type assetResult struct {
		asset    *docset.Asset
		url      string
		attempts int
		err      error
	}

	resultCh := make(chan assetResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, assetURL := range urls {
		assetURL := assetURL
		g.Go(func() error {
			if c.Limiter != nil {
				if err := c.Limiter.Wait(gctx, hostOf(assetURL)); err != nil {
					resultCh <- assetResult{url: assetURL, err: err}
					return nil
				}
			}
			fetched, attempts, err := c.fetchWithRetry(gctx, assetURL)
			if err != nil {
				resultCh <- assetResult{url: assetURL, attempts: attempts, err: err}
				return nil
			}
			offlinePath, err := docset.OfflinePath(assetURL)
			if err != nil {
				resultCh <- assetResult{url: assetURL, attempts: attempts, err: err}
				return nil
			}
			resultCh <- assetResult{
				url:      assetURL,
				attempts: attempts,
				asset: &docset.Asset{
					URL:         assetURL,
					OfflinePath: offlinePath,
					Body:        fetched.Body,
					ContentType: fetched.ContentType,
				},
			}
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)

	for res := range resultCh {
		if res.err != nil {
			result.Skipped = append(result.Skipped, Skipped{
				URL:      res.url,
				Attempts: res.attempts,
				Err:      res.err,
			})
			c.logWarn("asset skipped", "url", res.url, "attempts", res.attempts, "err", res.err)
			continue
		}
		result.Assets = append(result.Assets, res.asset)
		result.Bytes += len(res.asset.Body)
	}

	return ctx.Err()
}

func (c *Crawler) fetchWithRetry(ctx context.Context, url string) (*docset.FetchResult, int, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	var logf LogFunc
	if c.Logger != nil {
		logf = func(format string, args ...any) {
			c.Logger.Debug(fmt.Sprintf(format, args...))
		}
	}
	return FetchWithRetryDelays(ctx, url, c.Fetcher.Fetch, logf, delays)
}

func (c *Crawler) logWarn(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}

// sortResult orders pages, assets and skips by URL for deterministic output.
func sortResult(result *Result) {
	sort.Slice(result.Pages, func(i, j int) bool {
		return result.Pages[i].URL < result.Pages[j].URL
	})
	sort.Slice(result.Assets, func(i, j int) bool {
		return result.Assets[i].URL < result.Assets[j].URL
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].URL < result.Skipped[j].URL
	})
}

// isHTML reports whether a content type carries an HTML document.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
