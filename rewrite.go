package docset

// PathResolver maps an absolute URL to the offline path of a stored page
// or asset. It returns false when the URL is not part of the bundle, in
// which case the reference is left untouched.
type PathResolver func(url string) (offlinePath string, ok bool)

// Rewriter transforms fetched page content for offline use: references to
// bundled pages and assets become relative offline paths, site chrome that
// is useless offline is removed, and table-of-contents anchors are added.
//
// Rewriting is idempotent: running it on already-rewritten content
// produces identical output. Fragments on rewritten links are preserved;
// references the resolver does not know stay exactly as authored.
type Rewriter interface {
	Rewrite(page *Page, resolve PathResolver) ([]byte, error)
}
