package goquery

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.PageClassifier = (*Classifier)(nil)

// Classifier determines the structural category of a documentation page.
// It inspects heading hierarchy and signature markers in the content rather
// than trusting the URL, since the source site is not uniformly structured.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify analyzes the page content and returns the identified kind.
// Returns KindUnknown when the page has no extractable title.
func (c *Classifier) Classify(page *docset.Page) docset.PageKind {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return docset.KindUnknown
	}
	return classify(doc, page.URL)
}

func classify(doc *goquery.Document, pageURL string) docset.PageKind {
	title := pageTitle(doc)
	if title == "" {
		return docset.KindUnknown
	}

	// React hooks follow the use* naming convention
	if isHookName(title) {
		return docset.KindHookReference
	}

	// Example walkthroughs read like guides; the URL segment is the only
	// reliable marker for them
	if isExamplePath(pageURL) {
		return docset.KindSample
	}

	if hasAPIMarkers(doc) {
		return docset.KindAPIReference
	}

	return docset.KindGuide
}

// pageTitle extracts the page title: the first h1, falling back to the
// title tag with the site suffix ("Name | Raycast API") removed.
func pageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}

	title := doc.Find("title").First().Text()
	if i := strings.Index(title, " | "); i >= 0 {
		title = title[:i]
	} else if i := strings.Index(title, " - "); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}

// isHookName reports whether a title names a React hook (use followed by
// an uppercase letter, as in usePromise).
func isHookName(title string) bool {
	rest, ok := strings.CutPrefix(title, "use")
	if !ok || rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}

// isExamplePath reports whether the URL path contains an examples segment.
func isExamplePath(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "examples" {
			return true
		}
	}
	return false
}

// hasAPIMarkers reports whether the page carries the structural signatures
// of an API reference: member headings with anchors whose text is a call
// signature or a code identifier, or the Props/Signature sections that
// component and function pages always have. Prose headings (capitalized
// multi-word phrases) do not count, so guides with anchored section
// headings are not misclassified.
func hasAPIMarkers(doc *goquery.Document) bool {
	found := false
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}

		switch strings.ToLower(text) {
		case "props", "properties", "signature":
			found = true
			return false
		}

		if _, ok := sel.Attr("id"); !ok {
			return true
		}
		if isSignature(text) || isQualifiedIdentifier(text) || isLowerIdentifier(text) {
			found = true
			return false
		}
		return true
	})
	return found
}

// isSignature reports whether a heading is a call signature like
// "showToast(options)".
func isSignature(text string) bool {
	return strings.Contains(text, "(") && strings.Contains(text, ")")
}

// isQualifiedIdentifier reports whether a heading is a dotted single token
// like "Toast.Style".
func isQualifiedIdentifier(text string) bool {
	return !strings.Contains(text, " ") && strings.Contains(text, ".")
}

// isLowerIdentifier reports whether a heading is a single token starting
// with a lowercase letter, like "environment". Prose headings start with
// a capital.
func isLowerIdentifier(text string) bool {
	if strings.Contains(text, " ") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLower(r)
}
