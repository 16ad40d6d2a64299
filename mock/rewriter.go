package mock

import "github.com/ichoosetoaccept/raycast-docset"

var _ docset.Rewriter = (*Rewriter)(nil)

// Rewriter is a mock implementation of docset.Rewriter.
type Rewriter struct {
	RewriteFn func(page *docset.Page, resolve docset.PathResolver) ([]byte, error)
}

func (r *Rewriter) Rewrite(page *docset.Page, resolve docset.PathResolver) ([]byte, error) {
	return r.RewriteFn(page, resolve)
}
