package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure LLMSSource implements docset.URLSource.
var _ docset.URLSource = (*LLMSSource)(nil)

// LLMSSource discovers documentation URLs from a site's llms.txt manifest.
// GitBook-hosted sites publish llms.txt as a markdown document whose links
// point at the .md rendition of every page; the same paths minus the .md
// suffix are the HTML pages.
type LLMSSource struct {
	client    *http.Client
	userAgent string
	md        goldmark.Markdown
}

// NewLLMSSource creates an LLMSSource with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewLLMSSource(client *http.Client) *LLMSSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &LLMSSource{
		client:    client,
		userAgent: DefaultUserAgent,
		md:        goldmark.New(),
	}
}

// DiscoverURLs fetches <baseURL>/llms.txt and returns the page URLs it
// lists, in manifest order, with the site root first. The manifest's
// /readme entry is the root page and maps to "/".
func (s *LLMSSource) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	manifestURL := base.ResolveReference(&url.URL{Path: "/llms.txt"})
	body, err := s.fetch(ctx, manifestURL.String())
	if err != nil {
		return nil, err
	}

	root := base.ResolveReference(&url.URL{Path: "/"}).String()
	urls := []string{root}
	seen := map[string]bool{root: true}

	for _, dest := range s.markdownLinks(body) {
		p, ok := pagePath(dest)
		if !ok {
			continue
		}
		u := base.ResolveReference(&url.URL{Path: p}).String()
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// markdownLinks returns the destination of every link in the document,
// in document order.
func (s *LLMSSource) markdownLinks(source []byte) []string {
	var links []string
	doc := s.md.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if link, ok := n.(*ast.Link); ok {
				links = append(links, string(link.Destination))
			}
		}
		return ast.WalkContinue, nil
	})
	return links
}

// pagePath converts a manifest link destination to the path of the HTML
// page it documents. Only absolute-path .md links count; anything else
// (external URLs, anchors, non-markdown files) is not a page.
func pagePath(dest string) (string, bool) {
	if !strings.HasPrefix(dest, "/") || !strings.HasSuffix(dest, ".md") {
		return "", false
	}
	p := strings.TrimSuffix(dest, ".md")
	if p == "/readme" {
		p = "/"
	}
	return p, true
}

func (s *LLMSSource) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid URL %q: %v", target, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, target)
	}

	return io.ReadAll(resp.Body)
}
