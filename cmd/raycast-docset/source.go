package main

import (
	"context"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Compile-time interface verification.
var _ docset.URLSource = (*CompositeSource)(nil)

// CompositeSource implements docset.URLSource by reading the site's
// llms.txt manifest first and falling back to sitemap discovery when the
// manifest is missing or empty.
type CompositeSource struct {
	primary  docset.URLSource
	fallback docset.URLSource
}

// NewCompositeSource creates a new CompositeSource. The fallback may be
// nil, in which case the primary's result is final.
func NewCompositeSource(primary, fallback docset.URLSource) *CompositeSource {
	return &CompositeSource{primary: primary, fallback: fallback}
}

// DiscoverURLs implements docset.URLSource.
func (s *CompositeSource) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	urls, err := s.primary.DiscoverURLs(ctx, baseURL)
	if err != nil && docset.ErrorCode(err) != docset.ENOTFOUND {
		return nil, err
	}
	if len(urls) > 0 {
		return urls, nil
	}

	if s.fallback == nil {
		return urls, err
	}
	return s.fallback.DiscoverURLs(ctx, baseURL)
}
