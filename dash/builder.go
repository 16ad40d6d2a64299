// Package dash assembles Dash docset bundles: offline documents, the
// Info.plist, icons and the SQLite search index.
package dash

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ichoosetoaccept/raycast-docset"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency is the parse/rewrite worker pool size when none is
// configured.
const defaultConcurrency = 4

// Builder turns crawled pages and assets into a complete docset bundle.
// Parsing and rewriting run in parallel; all bundle writes happen on the
// calling goroutine so the store and index see a deterministic order.
//
// The Builder never commits the bundle: the caller owns the store's
// commit/abort protocol because the index database must be closed before
// the staged bundle is published.
type Builder struct {
	Parser   docset.PageParser
	Rewriter docset.Rewriter
	Store    docset.BundleStore
	Index    docset.IndexWriter

	// Logger, when set, receives per-page diagnostics.
	Logger *slog.Logger

	// Name is the docset display name. The bundle identifier, platform
	// family and keyword are its lowercase form.
	Name string

	// IndexFilePath is the Documents-relative path of the landing page
	// Dash opens first.
	IndexFilePath string

	// FallbackURL is the online URL Dash falls back to for content the
	// bundle is missing.
	FallbackURL string

	Concurrency int
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	// Documents is the number of pages written to the bundle.
	Documents int

	// Assets is the number of static resources written to the bundle.
	Assets int

	// Entries is the number of index entries the parsers produced.
	// Exact duplicates collapse to a single row in the search index.
	Entries int

	// ZeroEntryPages lists HTML pages that produced no index entries.
	// They are in the bundle but unreachable through search.
	ZeroEntryPages []string
}

// pageOutput is the parse and rewrite outcome for one page.
type pageOutput struct {
	page    *docset.Page
	body    []byte
	entries []*docset.Entry
	html    bool
}

// Build assembles the bundle from crawled pages and assets. Pages must
// already be deduplicated and sorted; the crawler guarantees both. A page
// that fails to parse or rewrite is still bundled (unmodified, unindexed)
// so the docset stays browsable. Build returns an error only when the
// bundle itself cannot be written; the caller should then abort the store.
func (b *Builder) Build(ctx context.Context, pages []*docset.Page, assets []*docset.Asset, icon []byte) (*BuildResult, error) {
	if b.Parser == nil {
		return nil, docset.Errorf(docset.EINVALID, "builder requires a parser")
	}
	if b.Rewriter == nil {
		return nil, docset.Errorf(docset.EINVALID, "builder requires a rewriter")
	}
	if b.Store == nil {
		return nil, docset.Errorf(docset.EINVALID, "builder requires a store")
	}
	if b.Index == nil {
		return nil, docset.Errorf(docset.EINVALID, "builder requires an index writer")
	}
	if len(pages) == 0 {
		return nil, docset.Errorf(docset.EINVALID, "no pages to build")
	}
	if b.IndexFilePath == "" {
		return nil, docset.Errorf(docset.EINVALID, "builder requires an index file path")
	}
	if b.FallbackURL == "" {
		return nil, docset.Errorf(docset.EINVALID, "builder requires a fallback URL")
	}

	name := b.Name
	if name == "" {
		name = "Raycast"
	}
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	resolve := newResolver(pages, assets)
	outputs := make([]pageOutput, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = b.processPage(page, resolve)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result BuildResult
	for i := range outputs {
		out := &outputs[i]
		if err := b.Store.SaveDocument(ctx, out.page.OfflinePath, out.body); err != nil {
			return nil, fmt.Errorf("storing %s: %w", out.page.URL, err)
		}
		result.Documents++

		for _, entry := range out.entries {
			if entry.Path != out.page.OfflinePath {
				return nil, docset.Errorf(docset.ECONFLICT,
					"entry %q references %s, not the page it was parsed from", entry.Name, entry.Path)
			}
			if err := b.Index.CreateEntry(ctx, entry); err != nil {
				return nil, fmt.Errorf("indexing %q from %s: %w", entry.Name, out.page.URL, err)
			}
			result.Entries++
		}
		if out.html && len(out.entries) == 0 {
			result.ZeroEntryPages = append(result.ZeroEntryPages, out.page.URL)
		}
	}

	for _, asset := range assets {
		if err := b.Store.SaveDocument(ctx, asset.OfflinePath, asset.Body); err != nil {
			return nil, fmt.Errorf("storing asset %s: %w", asset.URL, err)
		}
		result.Assets++
	}

	plist, err := DocsetInfo{
		Identifier:     strings.ToLower(name),
		Name:           name,
		PlatformFamily: strings.ToLower(name),
		Keyword:        strings.ToLower(name),
		IndexFilePath:  b.IndexFilePath,
		FallbackURL:    b.FallbackURL,
	}.Plist()
	if err != nil {
		return nil, fmt.Errorf("rendering Info.plist: %w", err)
	}
	if err := b.Store.SavePlist(ctx, plist); err != nil {
		return nil, fmt.Errorf("storing Info.plist: %w", err)
	}

	if len(icon) > 0 {
		if err := b.Store.SaveIcon(ctx, icon); err != nil {
			return nil, fmt.Errorf("storing icon: %w", err)
		}
	}

	return &result, nil
}

// processPage parses and rewrites a single page. Failures degrade rather
// than abort: a page that cannot be parsed is bundled without entries, a
// page that cannot be rewritten is bundled as fetched.
func (b *Builder) processPage(page *docset.Page, resolve docset.PathResolver) pageOutput {
	out := pageOutput{page: page, body: page.Body, html: isHTML(page.ContentType)}
	if !out.html {
		return out
	}

	entries, err := b.Parser.ParsePage(page)
	if err != nil {
		b.logWarn("page parse failed", "url", page.URL, "err", err)
	} else {
		out.entries = entries
	}

	body, err := b.Rewriter.Rewrite(page, resolve)
	if err != nil {
		b.logWarn("page rewrite failed, bundling as fetched", "url", page.URL, "err", err)
	} else {
		out.body = body
	}

	return out
}

// newResolver maps every bundled URL to its offline path. Page links
// normalize with their query intact; asset references drop it, matching
// how the crawler admitted them.
func newResolver(pages []*docset.Page, assets []*docset.Asset) docset.PathResolver {
	paths := make(map[string]string, len(pages)+len(assets))
	for _, p := range pages {
		paths[p.URL] = p.OfflinePath
	}
	for _, a := range assets {
		paths[a.URL] = a.OfflinePath
	}
	return func(rawURL string) (string, bool) {
		if norm, err := docset.NormalizeURL(rawURL); err == nil {
			if p, ok := paths[norm]; ok {
				return p, true
			}
		}
		if norm, err := docset.NormalizeAssetURL(rawURL); err == nil {
			if p, ok := paths[norm]; ok {
				return p, true
			}
		}
		return "", false
	}
}

func (b *Builder) logWarn(msg string, args ...any) {
	if b.Logger != nil {
		b.Logger.Warn(msg, args...)
	}
}

// isHTML reports whether a content type carries an HTML document.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}
