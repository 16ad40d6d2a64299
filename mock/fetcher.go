package mock

import (
	"context"

	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docset.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docset.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docset.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
