//go:build integration

package http_test

import (
	"context"
	"strings"
	"testing"
	"time"

	docsethttp "github.com/ichoosetoaccept/raycast-docset/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSSource_Integration_RaycastDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src := docsethttp.NewLLMSSource(nil)

	urls, err := src.DiscoverURLs(ctx, "https://developers.raycast.com")
	require.NoError(t, err)

	// Should find at least some URLs with the root first
	require.NotEmpty(t, urls, "expected URLs from the llms.txt manifest")
	assert.Equal(t, "https://developers.raycast.com/", urls[0])
	t.Logf("Found %d URLs from the llms.txt manifest", len(urls))

	// Verify URLs look reasonable (show first 5)
	for _, u := range urls[:min(5, len(urls))] {
		assert.True(t, strings.HasPrefix(u, "https://developers.raycast.com/"))
		t.Logf("  - %s", u)
	}
}

func TestSitemapSource_Integration_RaycastDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src := docsethttp.NewSitemapSource(nil)

	urls, err := src.DiscoverURLs(ctx, "https://developers.raycast.com")
	require.NoError(t, err)
	t.Logf("Found %d URLs from the sitemap", len(urls))
}
