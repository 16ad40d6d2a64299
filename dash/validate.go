package dash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/ichoosetoaccept/raycast-docset/sqlite"
)

// DefaultMinEntries is the smallest search index a complete build is
// expected to produce.
const DefaultMinEntries = 500

// requiredPlistKeys must all be present for Dash to load the bundle.
var requiredPlistKeys = []string{
	"CFBundleIdentifier",
	"CFBundleName",
	"DocSetPlatformFamily",
	"isDashDocset",
	"dashIndexFilePath",
}

// expectedEntryTypes are the Dash types every complete build produces.
// Other types (Component, Hook, Property, Section) vary with site content.
var expectedEntryTypes = []string{"Guide", "Class", "Method"}

// trackingPatterns flag third-party scripts that have no business in an
// offline bundle.
var trackingPatterns = []struct {
	re   *regexp.Regexp
	desc string
}{
	{regexp.MustCompile(`(?i)googletagmanager\.com`), "Google Tag Manager"},
	{regexp.MustCompile(`(?i)google-analytics\.com`), "Google Analytics"},
	{regexp.MustCompile(`(?i)cdn\.cookielaw\.org`), "OneTrust cookie consent"},
	{regexp.MustCompile(`(?i)cookieconsent`), "cookie consent script"},
	{regexp.MustCompile(`(?i)gdpr|privacy.?consent`), "GDPR consent banner"},
}

// chromePattern matches site chrome elements the rewriter should have
// stripped.
var chromePattern = regexp.MustCompile(`(?i)<(header|nav|aside)[\s>]`)

// emptyAnchorPattern matches dashAnchor elements that sit before their
// heading instead of inside it, which breaks Dash's scroll targeting.
var emptyAnchorPattern = regexp.MustCompile(`(?i)<a\s[^>]*dashAnchor[^>]*>\s*</a>\s*<h[123]`)

// Validator checks a built bundle against the Dash docset contract.
// Every check is deterministic: the same bundle always yields the same
// report.
type Validator struct {
	// MinEntries is the entry count below which the index is flagged as
	// suspiciously small. Zero means DefaultMinEntries; negative disables
	// the check.
	MinEntries int
}

// Report is the outcome of validating a bundle. Errors make the bundle
// unusable in Dash; warnings flag quality problems a loadable bundle can
// still carry.
type Report struct {
	Errors   []string
	Warnings []string

	// Documents is the number of HTML files in the bundle.
	Documents int

	// Entries is the number of search index rows.
	Entries int

	// Anchors is the number of dashAnchor elements across all documents.
	Anchors int
}

// OK reports whether the bundle is usable.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate inspects the bundle at docsetPath. Findings are collected in
// the report; the returned error is reserved for context cancellation.
func (v *Validator) Validate(ctx context.Context, docsetPath string) (*Report, error) {
	report := &Report{}
	docs := filepath.Join(docsetPath, "Contents", "Resources", "Documents")

	if !v.checkStructure(report, docsetPath) {
		return report, nil
	}
	v.checkInfoPlist(report, docsetPath, docs)
	v.checkIcons(report, docsetPath)

	if err := v.checkDocuments(ctx, report, docs); err != nil {
		return nil, err
	}
	if err := v.checkIndex(ctx, report, docsetPath, docs); err != nil {
		return nil, err
	}
	return report, nil
}

// checkStructure verifies the bundle directory layout. It reports false
// when the layout is too broken for the remaining checks to run.
func (v *Validator) checkStructure(report *Report, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		report.errorf("docset not found: %s", path)
		return false
	}
	if !info.IsDir() {
		report.errorf("docset is not a directory: %s", path)
		return false
	}
	if !strings.HasSuffix(path, ".docset") {
		report.errorf("docset directory must end in .docset: %s", filepath.Base(path))
	}

	ok := true
	for _, dir := range []string{
		"Contents",
		filepath.Join("Contents", "Resources"),
		filepath.Join("Contents", "Resources", "Documents"),
	} {
		if info, err := os.Stat(filepath.Join(path, dir)); err != nil || !info.IsDir() {
			report.errorf("missing directory: %s", filepath.ToSlash(dir))
			ok = false
		}
	}
	return ok
}

// checkInfoPlist verifies the required plist keys and that the index file
// they point at exists.
func (v *Validator) checkInfoPlist(report *Report, path, docs string) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(filepath.Join(path, "Contents", "Info.plist")); err != nil {
		report.errorf("reading Info.plist: %v", err)
		return
	}
	dict := doc.FindElement("plist/dict")
	if dict == nil {
		report.errorf("Info.plist has no plist/dict element")
		return
	}

	// A plist dict is a flat sequence of key elements, each followed by
	// its value element.
	values := make(map[string]string)
	var lastKey string
	for _, child := range dict.ChildElements() {
		if child.Tag == "key" {
			lastKey = child.Text()
			values[lastKey] = ""
			continue
		}
		if lastKey != "" {
			values[lastKey] = child.Text()
			lastKey = ""
		}
	}

	for _, key := range requiredPlistKeys {
		if _, ok := values[key]; !ok {
			report.errorf("Info.plist is missing key %s", key)
		}
	}
	if index := values["dashIndexFilePath"]; index != "" {
		if _, err := os.Stat(filepath.Join(docs, filepath.FromSlash(index))); err != nil {
			report.warnf("dashIndexFilePath points to a missing file: %s", index)
		}
	}
}

func (v *Validator) checkIcons(report *Report, path string) {
	for _, name := range []string{"icon.png", "icon@2x.png"} {
		if _, err := os.Stat(filepath.Join(path, name)); err != nil {
			report.warnf("missing %s", name)
		}
	}
}

// checkDocuments scans every HTML file for leftover tracking scripts,
// site chrome and table-of-contents anchors.
func (v *Validator) checkDocuments(ctx context.Context, report *Report, docs string) error {
	var htmlFiles []string
	err := filepath.WalkDir(docs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".html") {
			htmlFiles = append(htmlFiles, p)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		report.errorf("walking documents: %v", err)
		return nil
	}

	report.Documents = len(htmlFiles)
	if len(htmlFiles) == 0 {
		report.errorf("no HTML documents in bundle")
		return nil
	}

	tracked := make(map[string]bool)
	var chrome, badAnchors int
	for _, p := range htmlFiles {
		data, err := os.ReadFile(p)
		if err != nil {
			report.warnf("reading %s: %v", filepath.Base(p), err)
			continue
		}
		content := string(data)
		for _, t := range trackingPatterns {
			if !tracked[t.desc] && t.re.MatchString(content) {
				tracked[t.desc] = true
			}
		}
		if chromePattern.MatchString(content) {
			chrome++
		}
		report.Anchors += strings.Count(content, `class="dashAnchor"`)
		badAnchors += len(emptyAnchorPattern.FindAllString(content, -1))
	}

	for _, t := range trackingPatterns {
		if tracked[t.desc] {
			report.warnf("tracking script present: %s", t.desc)
		}
	}
	if chrome > 0 {
		report.warnf("%d documents retain site chrome (header, nav or aside)", chrome)
	}
	if report.Anchors == 0 {
		report.warnf("no dashAnchor elements; Dash will show no in-page table of contents")
	}
	if badAnchors > 0 {
		report.warnf("%d dashAnchor elements precede their heading instead of sitting inside it", badAnchors)
	}
	return nil
}

// checkIndex verifies the search index schema, size, entry types and that
// every row resolves to a bundled document.
func (v *Validator) checkIndex(ctx context.Context, report *Report, path, docs string) error {
	indexPath := filepath.Join(path, "Contents", "Resources", "docSet.dsidx")
	if _, err := os.Stat(indexPath); err != nil {
		report.errorf("missing search index: Contents/Resources/docSet.dsidx")
		return nil
	}

	db := sqlite.NewDB(indexPath)
	if err := db.OpenExisting(); err != nil {
		report.errorf("opening search index: %v", err)
		return nil
	}
	defer db.Close()

	var table string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'searchIndex'`).Scan(&table)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			report.errorf("search index has no searchIndex table")
		} else {
			report.errorf("querying search index: %v", err)
		}
		return ctx.Err()
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searchIndex`).Scan(&report.Entries); err != nil {
		report.errorf("counting search index entries: %v", err)
		return ctx.Err()
	}
	minEntries := v.MinEntries
	if minEntries == 0 {
		minEntries = DefaultMinEntries
	}
	if report.Entries == 0 {
		report.errorf("search index is empty")
		return nil
	}
	if minEntries > 0 && report.Entries < minEntries {
		report.warnf("search index has %d entries, expected at least %d", report.Entries, minEntries)
	}

	if err := v.checkEntryTypes(ctx, report, db); err != nil {
		return err
	}
	if err := v.checkEntryPaths(ctx, report, db, docs); err != nil {
		return err
	}
	return v.checkAnchorTargets(ctx, report, db, docs)
}

func (v *Validator) checkEntryTypes(ctx context.Context, report *Report, db *sqlite.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT type FROM searchIndex`)
	if err != nil {
		report.errorf("querying entry types: %v", err)
		return ctx.Err()
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			report.errorf("scanning entry types: %v", err)
			return ctx.Err()
		}
		have[t] = true
	}
	if err := rows.Err(); err != nil {
		report.errorf("reading entry types: %v", err)
		return ctx.Err()
	}

	for _, want := range expectedEntryTypes {
		if !have[want] {
			report.warnf("no entries of type %s", want)
		}
	}
	return nil
}

func (v *Validator) checkEntryPaths(ctx context.Context, report *Report, db *sqlite.DB, docs string) error {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT path FROM searchIndex`)
	if err != nil {
		report.errorf("querying entry paths: %v", err)
		return ctx.Err()
	}
	defer rows.Close()

	exists := make(map[string]bool)
	missing := 0
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			report.errorf("scanning entry paths: %v", err)
			return ctx.Err()
		}
		file, _, _ := strings.Cut(p, "#")
		ok, seen := exists[file]
		if !seen {
			_, err := os.Stat(filepath.Join(docs, filepath.FromSlash(file)))
			ok = err == nil
			exists[file] = ok
		}
		if !ok {
			missing++
		}
	}
	if err := rows.Err(); err != nil {
		report.errorf("reading entry paths: %v", err)
		return ctx.Err()
	}

	if missing > 0 {
		report.warnf("%d index paths point to missing documents", missing)
	}
	return nil
}

// checkAnchorTargets verifies that anchored entries land on an element id
// present in their document.
func (v *Validator) checkAnchorTargets(ctx context.Context, report *Report, db *sqlite.DB, docs string) error {
	rows, err := db.QueryContext(ctx, `SELECT name, path FROM searchIndex WHERE path LIKE '%#%'`)
	if err != nil {
		report.errorf("querying anchored entries: %v", err)
		return ctx.Err()
	}
	defer rows.Close()

	contents := make(map[string]string)
	missing := 0
	for rows.Next() {
		var name, p string
		if err := rows.Scan(&name, &p); err != nil {
			report.errorf("scanning anchored entries: %v", err)
			return ctx.Err()
		}
		file, anchor, _ := strings.Cut(p, "#")
		content, seen := contents[file]
		if !seen {
			data, err := os.ReadFile(filepath.Join(docs, filepath.FromSlash(file)))
			if err == nil {
				content = string(data)
			}
			contents[file] = content
		}
		if content == "" {
			continue
		}
		if !strings.Contains(content, `id="`+anchor+`"`) && !strings.Contains(content, `id='`+anchor+`'`) {
			missing++
		}
	}
	if err := rows.Err(); err != nil {
		report.errorf("reading anchored entries: %v", err)
		return ctx.Err()
	}

	if missing > 0 {
		report.warnf("%d anchored entries have no matching id in their document", missing)
	}
	return nil
}
