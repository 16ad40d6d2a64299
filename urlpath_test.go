package docset_test

import (
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflinePath(t *testing.T) {
	t.Parallel()

	t.Run("maps the root to index.html under the host directory", func(t *testing.T) {
		t.Parallel()

		got, err := docset.OfflinePath("https://developers.raycast.com/")

		require.NoError(t, err)
		assert.Equal(t, "developers.raycast.com/index.html", got)
	})

	t.Run("maps extensionless paths to a directory with index.html", func(t *testing.T) {
		t.Parallel()

		got, err := docset.OfflinePath("https://developers.raycast.com/api-reference/ai")

		require.NoError(t, err)
		assert.Equal(t, "developers.raycast.com/api-reference/ai/index.html", got)
	})

	t.Run("keeps paths with file extensions as-is", func(t *testing.T) {
		t.Parallel()

		got, err := docset.OfflinePath("https://developers.raycast.com/~gitbook/static/style.css")

		require.NoError(t, err)
		assert.Equal(t, "developers.raycast.com/~gitbook/static/style.css", got)
	})

	t.Run("maps trailing-slash paths to index.html inside the directory", func(t *testing.T) {
		t.Parallel()

		got, err := docset.OfflinePath("https://developers.raycast.com/basics/")

		require.NoError(t, err)
		assert.Equal(t, "developers.raycast.com/basics/index.html", got)
	})

	t.Run("prefixes asset hosts the same way", func(t *testing.T) {
		t.Parallel()

		got, err := docset.OfflinePath("https://files.gitbook.io/v0/logo.png")

		require.NoError(t, err)
		assert.Equal(t, "files.gitbook.io/v0/logo.png", got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		a, err := docset.OfflinePath("https://developers.raycast.com/basics/getting-started")
		require.NoError(t, err)
		b, err := docset.OfflinePath("https://developers.raycast.com/basics/getting-started")
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("distinct normalized URLs map to distinct paths", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://developers.raycast.com/",
			"https://developers.raycast.com/basics",
			"https://developers.raycast.com/basics/getting-started",
			"https://developers.raycast.com/api-reference/ai",
			"https://developers.raycast.com/api-reference/ai.css",
		}

		seen := make(map[string]string)
		for _, u := range urls {
			p, err := docset.OfflinePath(u)
			require.NoError(t, err)
			prev, dup := seen[p]
			require.False(t, dup, "offline path %q produced by both %q and %q", p, prev, u)
			seen[p] = u
		}
	})

	t.Run("rejects URLs without host", func(t *testing.T) {
		t.Parallel()

		_, err := docset.OfflinePath("/api-reference/ai")

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(err))
	})
}
