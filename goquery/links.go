package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.LinkExtractor = (*Extractor)(nil)

// assetSelectors lists the references worth capturing for offline use,
// matching what the documentation pages actually load.
var assetSelectors = []struct {
	selector string
	attr     string
}{
	{"link[rel='stylesheet']", "href"},
	{"script[src]", "src"},
	{"img[src]", "src"},
	{"link[rel='icon']", "href"},
	{"link[rel='apple-touch-icon']", "href"},
	{"link[rel='preload']", "href"},
}

// Extractor discovers page links and static asset references in HTML.
// It resolves everything to absolute URLs and leaves scope decisions to
// the caller.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the URLs of all anchors in document order, resolved
// against the page URL. Fragments are stripped, duplicates are returned
// once, and non-HTTP links (javascript:, mailto:, tel:, data:) and self
// references are dropped.
func (e *Extractor) ExtractLinks(page *docset.Page) ([]string, error) {
	base, doc, err := parsePage(page)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// ExtractAssets returns the URLs of stylesheets, scripts, images, icons and
// preloaded resources in document order, resolved against the page URL.
// Inline data: URIs are skipped.
func (e *Extractor) ExtractAssets(page *docset.Page) ([]string, error) {
	base, doc, err := parsePage(page)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var assets []string

	for _, cfg := range assetSelectors {
		doc.Find(cfg.selector).Each(func(_ int, sel *goquery.Selection) {
			ref, _ := sel.Attr(cfg.attr)
			if ref == "" || isNonHTTPLink(ref) {
				return
			}

			resolved := resolveURL(base, ref)
			if resolved == "" {
				return
			}

			if _, ok := seen[resolved]; ok {
				return
			}
			seen[resolved] = struct{}{}
			assets = append(assets, resolved)
		})
	}

	return assets, nil
}

func parsePage(page *docset.Page) (*url.URL, *goquery.Document, error) {
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, nil, docset.Errorf(docset.EINVALID, "invalid page URL %q: %v", page.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, nil, docset.Errorf(docset.EINVALID, "failed to parse HTML for %s: %v", page.URL, err)
	}

	return base, doc, nil
}

// resolveURL resolves a reference against the page URL. Returns empty
// string if the reference cannot be parsed or resolves back to the page
// itself. Fragments are stripped so fragment variants collapse to one URL.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a reference is a non-HTTP link that should be
// skipped.
func isNonHTTPLink(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:")
}
