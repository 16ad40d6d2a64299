package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/fs"
	"github.com/ichoosetoaccept/raycast-docset/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Response Caching
// The cache fetcher serves repeat fetches from disk and supports offline rebuilds

func TestCacheFetcher_MissFetchesAndStores(t *testing.T) {
	t.Parallel()

	// Given a cache in front of a live fetcher
	dir := t.TempDir()
	calls := 0
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			calls++
			return &docset.FetchResult{Body: []byte("<html>live</html>"), ContentType: "text/html"}, nil
		},
	}
	cache, err := fs.NewCacheFetcher(inner, dir)
	require.NoError(t, err)

	// When I fetch a URL twice
	first, err := cache.Fetch(context.Background(), "https://developers.raycast.com/")
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background(), "https://developers.raycast.com/")
	require.NoError(t, err)

	// Then the live fetcher was hit exactly once
	assert.Equal(t, 1, calls, "second fetch should be served from the cache")

	// And both fetches return the same response
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, "text/html", second.ContentType)
}

func TestCacheFetcher_SurvivesReopen(t *testing.T) {
	t.Parallel()

	// Given a cache populated by a previous run
	dir := t.TempDir()
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			return &docset.FetchResult{Body: []byte("cached body"), ContentType: "text/html"}, nil
		},
	}
	cache, err := fs.NewCacheFetcher(inner, dir)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), "https://developers.raycast.com/basics/install")
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	// When a new run opens the same cache directory without a live fetcher
	reopened, err := fs.NewOfflineFetcher(dir)
	require.NoError(t, err)

	// Then the cached response is served
	res, err := reopened.Fetch(context.Background(), "https://developers.raycast.com/basics/install")
	require.NoError(t, err)
	assert.Equal(t, "cached body", string(res.Body))
	assert.Equal(t, "text/html", res.ContentType)
}

func TestCacheFetcher_OfflineMissIsUnavailable(t *testing.T) {
	t.Parallel()

	// Given an offline cache with nothing in it
	cache, err := fs.NewOfflineFetcher(t.TempDir())
	require.NoError(t, err)

	// When I fetch an uncached URL
	_, err = cache.Fetch(context.Background(), "https://developers.raycast.com/missing")

	// Then the miss is reported as unavailable rather than attempted live
	require.Error(t, err)
	assert.Equal(t, docset.EUNAVAILABLE, docset.ErrorCode(err))
}

func TestCacheFetcher_RefetchesOnDigestMismatch(t *testing.T) {
	t.Parallel()

	// Given a cache entry whose body file was corrupted on disk
	dir := t.TempDir()
	calls := 0
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			calls++
			return &docset.FetchResult{Body: []byte("intact"), ContentType: "text/html"}, nil
		},
	}
	cache, err := fs.NewCacheFetcher(inner, dir)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), "https://developers.raycast.com/")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".body") {
			err = os.WriteFile(filepath.Join(dir, entry.Name()), []byte("tampered"), 0644)
			require.NoError(t, err)
		}
	}

	// When I fetch the URL again
	res, err := cache.Fetch(context.Background(), "https://developers.raycast.com/")
	require.NoError(t, err)

	// Then the corrupt entry is discarded and the URL refetched
	assert.Equal(t, 2, calls, "corrupt cache entry should fall through to the live fetcher")
	assert.Equal(t, "intact", string(res.Body))
}

func TestCacheFetcher_PropagatesFetchErrors(t *testing.T) {
	t.Parallel()

	// Given a live fetcher that fails
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			return nil, docset.Errorf(docset.ENOTFOUND, "no page at %s", url)
		},
	}
	cache, err := fs.NewCacheFetcher(inner, t.TempDir())
	require.NoError(t, err)

	// When I fetch through the cache
	_, err = cache.Fetch(context.Background(), "https://developers.raycast.com/gone")

	// Then the failure passes through untouched and nothing is cached
	require.Error(t, err)
	assert.Equal(t, docset.ENOTFOUND, docset.ErrorCode(err))
}

func TestCacheFetcher_CloseClosesInnerFetcher(t *testing.T) {
	t.Parallel()

	// Given a cache wrapping a fetcher that tracks Close
	closed := false
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			return &docset.FetchResult{Body: []byte("x")}, nil
		},
		CloseFn: func() error {
			closed = true
			return nil
		},
	}
	cache, err := fs.NewCacheFetcher(inner, t.TempDir())
	require.NoError(t, err)

	// When I close the cache
	require.NoError(t, cache.Close())

	// Then the wrapped fetcher is closed too
	assert.True(t, closed)
}

func TestCacheFetcher_WritesManifest(t *testing.T) {
	t.Parallel()

	// Given a cache that stored one response
	dir := t.TempDir()
	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docset.FetchResult, error) {
			return &docset.FetchResult{Body: []byte("body"), ContentType: "text/css"}, nil
		},
	}
	cache, err := fs.NewCacheFetcher(inner, dir)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), "https://developers.raycast.com/style.css")
	require.NoError(t, err)

	// Then the manifest records the URL with its media type and digest
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://developers.raycast.com/style.css")
	assert.Contains(t, string(data), "text/css")
	assert.Contains(t, string(data), `"digest"`)
	assert.Contains(t, string(data), `"run_id"`)
}
