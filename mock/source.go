package mock

import (
	"context"

	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of docset.URLSource.
type URLSource struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *URLSource) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
