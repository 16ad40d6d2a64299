package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	docsethttp "github.com/ichoosetoaccept/raycast-docset/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsPolicy(t *testing.T) {
	t.Parallel()

	t.Run("vetoes disallowed paths", func(t *testing.T) {
		t.Parallel()

		robotsTxt := `User-agent: *
Disallow: /private/
`
		srv := newTestServer(t, map[string]string{
			"/robots.txt": robotsTxt,
		})
		defer srv.Close()

		policy, err := docsethttp.NewRobotsPolicy(context.Background(), srv.Client(), srv.URL, "Raycast-Dash-Docset-Generator")
		require.NoError(t, err)

		assert.False(t, policy.Allow(srv.URL+"/private/internal"))
		assert.True(t, policy.Allow(srv.URL+"/docs/intro"))
	})

	t.Run("honors agent-specific groups", func(t *testing.T) {
		t.Parallel()

		robotsTxt := `User-agent: *
Disallow: /

User-agent: Raycast-Dash-Docset-Generator
Allow: /
`
		srv := newTestServer(t, map[string]string{
			"/robots.txt": robotsTxt,
		})
		defer srv.Close()

		policy, err := docsethttp.NewRobotsPolicy(context.Background(), srv.Client(), srv.URL, "Raycast-Dash-Docset-Generator")
		require.NoError(t, err)

		assert.True(t, policy.Allow(srv.URL+"/docs/intro"), "the generator's own group should win over the wildcard")
	})

	t.Run("missing robots.txt allows everything", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		policy, err := docsethttp.NewRobotsPolicy(context.Background(), srv.Client(), srv.URL, "Raycast-Dash-Docset-Generator")
		require.NoError(t, err)

		assert.True(t, policy.Allow(srv.URL+"/anything"))
	})

	t.Run("server error disallows everything", func(t *testing.T) {
		t.Parallel()

		srv := newErrorServer(t, http.StatusInternalServerError)
		defer srv.Close()

		policy, err := docsethttp.NewRobotsPolicy(context.Background(), srv.Client(), srv.URL, "Raycast-Dash-Docset-Generator")
		require.NoError(t, err)

		assert.False(t, policy.Allow(srv.URL+"/docs/intro"))
	})

	t.Run("allow-all policy permits every URL", func(t *testing.T) {
		t.Parallel()

		policy := docsethttp.AllowAllPolicy()
		assert.True(t, policy.Allow("https://developers.raycast.com/anything"))
	})
}

// Compile-time verification that RobotsPolicy implements docset.FetchPolicy
var _ docset.FetchPolicy = (*docsethttp.RobotsPolicy)(nil)

// newErrorServer creates a test HTTP server that answers every request
// with the given status code.
func newErrorServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
}
