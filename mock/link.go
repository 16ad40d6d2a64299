package mock

import "github.com/ichoosetoaccept/raycast-docset"

var _ docset.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docset.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn  func(page *docset.Page) ([]string, error)
	ExtractAssetsFn func(page *docset.Page) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(page *docset.Page) ([]string, error) {
	if l.ExtractLinksFn == nil {
		return nil, nil
	}
	return l.ExtractLinksFn(page)
}

func (l *LinkExtractor) ExtractAssets(page *docset.Page) ([]string, error) {
	if l.ExtractAssetsFn == nil {
		return nil, nil
	}
	return l.ExtractAssetsFn(page)
}
