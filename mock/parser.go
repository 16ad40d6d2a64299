package mock

import "github.com/ichoosetoaccept/raycast-docset"

var _ docset.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of docset.PageParser.
type PageParser struct {
	ParsePageFn func(page *docset.Page) ([]*docset.Entry, error)
}

func (p *PageParser) ParsePage(page *docset.Page) ([]*docset.Entry, error) {
	return p.ParsePageFn(page)
}
