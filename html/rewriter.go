// Package html rewrites fetched documentation pages for offline viewing:
// in-scope links become relative paths into the bundle, site chrome and
// tracking scripts are stripped, and Dash table-of-contents anchors are
// injected at every addressable heading.
package html

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/ichoosetoaccept/raycast-docset"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ docset.Rewriter = (*Rewriter)(nil)

// chromeElements are stripped entirely. Their links point at live-site
// navigation that cannot work offline; Dash provides its own TOC.
var chromeElements = map[string]struct{}{
	"header": {},
	"nav":    {},
	"aside":  {},
}

// trackingMarkers identify scripts that must not ship in the bundle.
var trackingMarkers = []string{
	"googletagmanager",
	"google-analytics",
	"gitbook",
}

// anchorSkipHeadings are headings that would produce noise entries in the
// Dash TOC.
var anchorSkipHeadings = map[string]struct{}{
	"see also": {},
	"example":  {},
	"examples": {},
}

// tocStyle keeps headings visible below Dash's toolbar when jumping to a
// TOC anchor.
const tocStyle = `
h1:has(.dashAnchor), h2:has(.dashAnchor), h3:has(.dashAnchor) {
    scroll-margin-top: 80px !important;
}
`

// Rewriter transforms page HTML into its offline form. Rewriting is
// idempotent: applying it to already-rewritten content changes nothing.
type Rewriter struct{}

// NewRewriter creates a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite returns the page body with in-scope references replaced by
// bundle-relative paths, chrome and tracking removed, and TOC anchors
// injected. References the resolver does not know, and all external links,
// are left untouched. Fragments survive rewriting unchanged.
func (r *Rewriter) Rewrite(page *docset.Page, resolve docset.PathResolver) ([]byte, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if resolve == nil {
		return nil, docset.Errorf(docset.EINVALID, "path resolver required")
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid page URL %q: %v", page.URL, err)
	}
	// Pages stored as dir/index.html resolve their relative references
	// from that directory, so the URL base must gain a trailing slash to
	// keep both address spaces aligned. Without this, rewriting its own
	// output would re-resolve relative links one level too high.
	if strings.HasSuffix(page.OfflinePath, "/index.html") && !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	doc, err := html.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "failed to parse HTML for %s: %v", page.URL, err)
	}

	w := &walker{
		offlinePath: page.OfflinePath,
		base:        base,
		resolve:     resolve,
	}
	w.walk(doc)
	injectTOCStyle(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, docset.Errorf(docset.EINTERNAL, "failed to render HTML for %s: %v", page.URL, err)
	}
	return buf.Bytes(), nil
}

type walker struct {
	offlinePath string
	base        *url.URL
	resolve     docset.PathResolver
}

func (w *walker) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && w.shouldRemove(c) {
			n.RemoveChild(c)
		} else {
			w.visit(c)
			w.walk(c)
		}
		c = next
	}
}

func (w *walker) shouldRemove(n *html.Node) bool {
	if _, ok := chromeElements[n.Data]; ok {
		return true
	}
	switch n.Data {
	case "script":
		return isTrackingScript(n)
	case "div":
		return strings.Contains(strings.ToLower(attrValue(n, "class")), "cookie")
	}
	return false
}

func (w *walker) visit(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "a":
		w.rewriteAttr(n, "href")
	case "link":
		w.rewriteAttr(n, "href")
	case "script", "img", "source":
		w.rewriteAttr(n, "src")
	case "h1":
		injectDashAnchor(n, docset.EntryTypeGuide)
	case "h2", "h3":
		injectDashAnchor(n, docset.EntryTypeSection)
	}
}

// rewriteAttr replaces the attribute with a bundle-relative path when the
// reference resolves to a stored document or asset.
func (w *walker) rewriteAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key != key {
			continue
		}
		if rewritten, ok := w.rewriteRef(a.Val); ok {
			n.Attr[i].Val = rewritten
		}
		return
	}
}

func (w *walker) rewriteRef(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || isNonHTTPRef(trimmed) {
		return "", false
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	resolved := w.base.ResolveReference(ref)
	fragment := resolved.Fragment
	resolved.Fragment = ""
	resolved.RawFragment = ""

	target, ok := w.resolve(resolved.String())
	if !ok {
		return "", false
	}

	rel := relativePath(w.offlinePath, target)
	if fragment != "" {
		rel += "#" + fragment
	}
	if rel == raw {
		return "", false
	}
	return rel, true
}

// relativePath computes the path from the directory containing fromFile to
// toFile, both bundle-relative.
func relativePath(fromFile, toFile string) string {
	fromDir := path.Dir(fromFile)
	var fromParts []string
	if fromDir != "." {
		fromParts = strings.Split(fromDir, "/")
	}
	toParts := strings.Split(toFile, "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	var b strings.Builder
	for i := 0; i < len(fromParts)-common; i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toParts[common:], "/"))
	return b.String()
}

// injectDashAnchor prepends a Dash TOC anchor to an addressable heading.
// Dash reads the apple_ref name to build the page TOC; the heading id stays
// in place for regular fragment navigation.
func injectDashAnchor(heading *html.Node, entryType docset.EntryType) {
	if attrValue(heading, "id") == "" {
		return
	}
	if first := firstElementChild(heading); first != nil && isDashAnchor(first) {
		return
	}

	text := strings.TrimSpace(nodeText(heading))
	if text == "" {
		return
	}
	if _, skip := anchorSkipHeadings[strings.ToLower(text)]; skip {
		return
	}

	anchor := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "name", Val: "//apple_ref/cpp/" + string(entryType) + "/" + encodeAnchorName(text)},
			{Key: "class", Val: "dashAnchor"},
		},
	}
	heading.InsertBefore(anchor, heading.FirstChild)
}

// encodeAnchorName percent-encodes a heading for use in an apple_ref name.
func encodeAnchorName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// injectTOCStyle appends the scroll margin rule to head, once.
func injectTOCStyle(doc *html.Node) {
	head := findElement(doc, "head")
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "style" && strings.Contains(nodeText(c), "scroll-margin-top") {
			return
		}
	}

	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: tocStyle})
	head.AppendChild(style)
}

// isTrackingScript reports whether a script node references an analytics or
// consent system, either through its attributes or its inline body.
func isTrackingScript(n *html.Node) bool {
	for _, a := range n.Attr {
		val := strings.ToLower(a.Val)
		for _, marker := range trackingMarkers {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(nodeText(n)), "cookie")
}

func isNonHTTPRef(ref string) bool {
	ref = strings.ToLower(ref)
	return strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:")
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func isDashAnchor(n *html.Node) bool {
	return n.Data == "a" && strings.Contains(attrValue(n, "class"), "dashAnchor")
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
