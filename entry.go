package docset

import "context"

// EntryType identifies the kind of a search index entry. Values are the
// Dash entry type names, which Dash uses to pick the icon shown next to
// each result.
type EntryType string

// Entry types produced by the page parsers.
const (
	EntryTypeClass     EntryType = "Class"
	EntryTypeComponent EntryType = "Component"
	EntryTypeFunction  EntryType = "Function"
	EntryTypeGuide     EntryType = "Guide"
	EntryTypeHook      EntryType = "Hook"
	EntryTypeMethod    EntryType = "Method"
	EntryTypeProperty  EntryType = "Property"
	EntryTypeSample    EntryType = "Sample"
	EntryTypeSection   EntryType = "Section"
	EntryTypeType      EntryType = "Type"
)

// ValidEntryType reports whether t is one of the known Dash entry types.
func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryTypeClass, EntryTypeComponent, EntryTypeFunction, EntryTypeGuide,
		EntryTypeHook, EntryTypeMethod, EntryTypeProperty, EntryTypeSample,
		EntryTypeSection, EntryTypeType:
		return true
	}
	return false
}

// Entry represents a single row in the docset search index.
type Entry struct {
	// Display name searched in Dash. For member entries this is the bare
	// member name without the parent prefix.
	Name string

	// Dash entry type.
	Type EntryType

	// Bundle-relative document path under Documents/.
	Path string

	// Optional fragment identifier within the document. Stored without
	// the leading "#".
	Anchor string
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.Name == "" {
		return Errorf(EINVALID, "entry name required")
	}
	if !ValidEntryType(e.Type) {
		return Errorf(EINVALID, "entry type %q not recognized", e.Type)
	}
	if e.Path == "" {
		return Errorf(EINVALID, "entry path required")
	}
	return nil
}

// ResolvedPath returns the path stored in the search index: the document
// path plus the fragment, when one is set.
func (e *Entry) ResolvedPath() string {
	if e.Anchor == "" {
		return e.Path
	}
	return e.Path + "#" + e.Anchor
}

// PageKind classifies a page by its structure. The set is closed: a page
// that matches none of the structural signatures is KindUnknown and
// produces no entries.
type PageKind string

// Page kinds recognized by the classifier.
const (
	// KindAPIReference is a page documenting an API surface: a titled
	// subject plus member headings (props, methods, functions, types).
	KindAPIReference PageKind = "api-reference"

	// KindHookReference is an API page whose subject is a React hook.
	KindHookReference PageKind = "hook-reference"

	// KindGuide is a prose page: tutorial, conceptual or informational.
	KindGuide PageKind = "guide"

	// KindSample is an example walkthrough page.
	KindSample PageKind = "sample"

	// KindUnknown is a page with no recognized structure.
	KindUnknown PageKind = "unknown"
)

// PageClassifier determines the structural category of a page.
type PageClassifier interface {
	Classify(page *Page) PageKind
}

// PageParser extracts typed index entries from a fetched page.
// Parsing is pure: same page bytes, same entries.
type PageParser interface {
	// ParsePage classifies the page and returns its index entries.
	// API-reference pages yield one entry for the documented subject plus
	// one per member heading; guide and sample pages yield exactly one
	// entry; unrecognized pages yield none. A malformed page returns an
	// error and no entries; it never panics.
	ParsePage(page *Page) ([]*Entry, error)
}

// IndexWriter writes entries to a search index.
type IndexWriter interface {
	CreateEntry(ctx context.Context, entry *Entry) error
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	Name *string
	Type *EntryType
	Path *string

	Offset int
	Limit  int
}

// IndexService manages the search index of a docset bundle.
type IndexService interface {
	// CreateEntry inserts an entry. Exact duplicates (same name, type and
	// path) are ignored rather than duplicated.
	CreateEntry(ctx context.Context, entry *Entry) error

	// FindEntries retrieves entries matching the filter, ordered by name.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// CountEntries returns the total number of indexed entries.
	CountEntries(ctx context.Context) (int, error)
}
