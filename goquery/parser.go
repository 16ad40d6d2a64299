package goquery

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.PageParser = (*Parser)(nil)

// maxEntryNameLen caps index entry names so one malformed heading cannot
// flood the search UI.
const maxEntryNameLen = 80

// skipHeadings are boilerplate section titles present on most reference
// pages. They carry no searchable name and never become entries.
var skipHeadings = map[string]struct{}{
	"example":    {},
	"examples":   {},
	"props":      {},
	"properties": {},
	"return":     {},
	"returns":    {},
	"parameters": {},
	"signature":  {},
	"see also":   {},
}

// Parser extracts search index entries from documentation pages.
//
// Dispatch is a closed switch over the structural page kinds: API reference
// pages produce one entry for the documented subject plus one per member
// heading, guide and sample pages produce exactly one entry, and pages with
// no recognized structure produce none. Duplicate headings on one page are
// kept as separate entries; collapsing them is the index consumer's call.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParsePage classifies the page and returns its index entries in document
// order, the page-level entry first.
func (p *Parser) ParsePage(page *docset.Page) ([]*docset.Entry, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "failed to parse HTML for %s: %v", page.URL, err)
	}

	title := pageTitle(doc)

	switch classify(doc, page.URL) {
	case docset.KindAPIReference:
		entries := []*docset.Entry{{
			Name: title,
			Type: subjectEntryType(doc),
			Path: page.OfflinePath,
		}}
		return append(entries, memberEntries(doc, title, page.OfflinePath)...), nil

	case docset.KindHookReference:
		entries := []*docset.Entry{{
			Name: title,
			Type: docset.EntryTypeHook,
			Path: page.OfflinePath,
		}}
		return append(entries, memberEntries(doc, title, page.OfflinePath)...), nil

	case docset.KindGuide:
		return []*docset.Entry{{
			Name: title,
			Type: docset.EntryTypeGuide,
			Path: page.OfflinePath,
		}}, nil

	case docset.KindSample:
		return []*docset.Entry{{
			Name: title,
			Type: docset.EntryTypeSample,
			Path: page.OfflinePath,
		}}, nil

	default:
		return nil, nil
	}
}

// subjectEntryType picks the entry type for the page-level entry of an API
// reference page. A Props section marks a React component; everything else
// is documented as a class.
func subjectEntryType(doc *goquery.Document) docset.EntryType {
	typ := docset.EntryTypeClass
	doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		switch strings.ToLower(strings.TrimSpace(sel.Text())) {
		case "props", "properties":
			typ = docset.EntryTypeComponent
			return false
		}
		return true
	})
	return typ
}

// memberEntries extracts one entry per anchored member heading in document
// order. Headings without an id cannot be linked to and are skipped, as are
// the boilerplate section titles. Duplicates are retained.
func memberEntries(doc *goquery.Document, subject, path string) []*docset.Entry {
	var entries []*docset.Entry
	doc.Find("h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		id, ok := sel.Attr("id")
		if !ok || id == "" || text == "" {
			return
		}
		if _, skip := skipHeadings[strings.ToLower(text)]; skip {
			return
		}

		name, typ := memberNameAndType(text, subject)
		entries = append(entries, &docset.Entry{
			Name:   name,
			Type:   typ,
			Path:   path,
			Anchor: id,
		})
	})
	return entries
}

// memberNameAndType derives a member entry's name and type from its heading
// text. Call signatures become methods named by the part before the
// parenthesis, with the subject prefix stripped ("Foo.bar()" under "Foo"
// indexes as "bar"). Single-token headings split on case: capitalized means
// a type, lowercase means a property. Anything else is a plain section.
func memberNameAndType(text, subject string) (string, docset.EntryType) {
	if i := strings.Index(text, "("); i >= 0 && strings.Contains(text, ")") {
		name := strings.TrimSpace(text[:i])
		name = strings.TrimPrefix(name, subject+".")
		return truncateName(name), docset.EntryTypeMethod
	}

	if !strings.Contains(text, " ") {
		r, _ := utf8.DecodeRuneInString(text)
		switch {
		case unicode.IsUpper(r):
			return truncateName(text), docset.EntryTypeType
		case unicode.IsLower(r):
			name := strings.TrimPrefix(text, subject+".")
			return truncateName(name), docset.EntryTypeProperty
		}
	}

	return truncateName(text), docset.EntryTypeSection
}

// truncateName shortens names longer than maxEntryNameLen runes.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxEntryNameLen {
		return name
	}
	return string(runes[:maxEntryNameLen-3]) + "..."
}
