package docset

import "context"

// BundleStore persists a docset bundle with atomic semantics. All writes
// land in a staging area; Commit atomically publishes the complete bundle
// and Abort discards it. A bundle is never observable half-written.
type BundleStore interface {
	// SaveDocument writes a page or asset at the given path relative to
	// the Documents directory.
	SaveDocument(ctx context.Context, rel string, data []byte) error

	// SavePlist writes the bundle's Info.plist.
	SavePlist(ctx context.Context, data []byte) error

	// SaveIcon writes the docset icon (both icon.png and icon@2x.png).
	SaveIcon(ctx context.Context, data []byte) error

	// IndexPath returns the staged filesystem path for the search index
	// database (docSet.dsidx).
	IndexPath() string

	// DocumentsPath returns the staged filesystem path of the Documents
	// directory.
	DocumentsPath() string

	// Commit atomically publishes the staged bundle at its final location,
	// replacing any previous bundle of the same name.
	Commit() error

	// Abort discards the staged bundle.
	Abort() error
}
