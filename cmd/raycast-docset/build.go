package main

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/crawl"
	"github.com/ichoosetoaccept/raycast-docset/dash"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	committed := false
	defer func() {
		// A failed build leaves nothing behind: close the index database
		// and discard the staged bundle.
		if !committed {
			_ = deps.DB.Close()
			_ = deps.Store.Abort()
		}
	}()

	// Discover seed URLs. Offline builds skip discovery and rediscover
	// the site by walking cached pages from the base URL.
	seeds := []string{c.URL}
	if !c.Offline {
		urls, err := deps.Source.DiscoverURLs(deps.Ctx, c.URL)
		switch {
		case docset.ErrorCode(err) == docset.ENOTFOUND:
			fmt.Fprintln(deps.Stdout, "No URL manifest found, crawling from the base URL")
		case err != nil:
			fmt.Fprintf(deps.Stderr, "error: %s\n", docset.ErrorMessage(err))
			return err
		case len(urls) > 0:
			seeds = urls
		}
	}
	fmt.Fprintf(deps.Stdout, "Found %d URLs\n", len(seeds))

	// Crawl with progress reporting
	deps.Crawler.Progress = func(p docset.CrawlProgress) {
		if p.Err != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %v\n", p.URL, p.Err)
		}
		fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", p.Completed, p.Queued, truncateURL(p.URL, 40))
	}

	result, err := deps.Crawler.Run(deps.Ctx, seeds)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	// Clear progress line
	fmt.Fprintf(deps.Stdout, "\r%80s\r", "")
	fmt.Fprintf(deps.Stdout, "Crawled %d pages and %d assets (%s)\n",
		len(result.Pages), len(result.Assets), crawl.FormatBytes(result.Bytes))
	for _, s := range result.Skipped {
		fmt.Fprintf(deps.Stderr, "skipped %s after %d attempts: %v\n", s.URL, s.Attempts, s.Err)
	}
	if len(result.Pages) == 0 {
		return docset.Errorf(docset.EUNAVAILABLE, "no pages could be fetched from %s", c.URL)
	}

	// Bundle icon, best effort. Fetched through the crawl fetcher so
	// cached and offline builds reuse the stored copy.
	var icon []byte
	if c.IconURL != "" {
		if res, err := deps.Crawler.Fetcher.Fetch(deps.Ctx, c.IconURL); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: could not fetch icon: %s\n", docset.ErrorMessage(err))
		} else {
			icon = res.Body
		}
	}

	builder := &dash.Builder{
		Parser:        deps.Parser,
		Rewriter:      deps.Rewriter,
		Store:         deps.Store,
		Index:         deps.Index,
		Logger:        deps.Logger,
		Name:          c.Name,
		IndexFilePath: indexFilePath(c.URL),
		FallbackURL:   c.URL,
		Concurrency:   c.Concurrency,
	}
	built, err := builder.Build(deps.Ctx, result.Pages, result.Assets, icon)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error building docset: %s\n", docset.ErrorMessage(err))
		return err
	}
	for _, u := range built.ZeroEntryPages {
		fmt.Fprintf(deps.Stderr, "no index entries for %s\n", u)
	}

	// Publish. The index database must be closed before the staged
	// bundle moves into place, or the rename would ship a hot journal.
	if err := deps.DB.Close(); err != nil {
		return fmt.Errorf("failed to close search index: %w", err)
	}
	if err := deps.Store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}
	committed = true

	fmt.Fprintf(deps.Stdout, "Saved %s: %d documents, %d assets, %d index entries\n",
		filepath.Join(c.Output, c.Name+".docset"), built.Documents, built.Assets, built.Entries)

	return nil
}

// indexFilePath is the Documents-relative path of the site's landing page.
func indexFilePath(baseURL string) string {
	norm, err := docset.NormalizeURL(baseURL)
	if err != nil {
		return "index.html"
	}
	path, err := docset.OfflinePath(norm)
	if err != nil {
		return "index.html"
	}
	return path
}

// truncateURL shortens a URL for display by showing only the path.
// This makes progress more useful when many URLs share the same host prefix.
func truncateURL(rawURL string, maxLen int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		// Fallback to simple right-truncation
		if len(rawURL) <= maxLen {
			return rawURL
		}
		return rawURL[:maxLen-3] + "..."
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	if len(path) <= maxLen {
		return path
	}

	// Truncate from the left to show the unique suffix
	return "..." + path[len(path)-maxLen+3:]
}
