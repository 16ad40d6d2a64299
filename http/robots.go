package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/temoto/robotstxt"
)

// Ensure RobotsPolicy implements docset.FetchPolicy.
var _ docset.FetchPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy implements docset.FetchPolicy from a site's robots.txt.
// URLs a group rule disallows are vetoed before any fetch is attempted.
type RobotsPolicy struct {
	group *robotstxt.Group
}

// NewRobotsPolicy fetches robots.txt for the site of baseURL and returns a
// policy for the given agent. A missing robots.txt allows everything; a
// server error disallows everything, per the robots.txt convention.
// The policy snapshots the rules once; it does not refetch during a crawl.
func NewRobotsPolicy(ctx context.Context, client *http.Client, baseURL, agent string) (*RobotsPolicy, error) {
	if client == nil {
		client = http.DefaultClient
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "invalid URL %q: %v", robotsURL, err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		// An unreachable robots.txt should not block an explicitly
		// requested crawl of the site.
		return &RobotsPolicy{}, nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, docset.Errorf(docset.EINVALID, "parsing robots.txt at %s: %v", robotsURL, err)
	}

	return &RobotsPolicy{group: data.FindGroup(agent)}, nil
}

// AllowAllPolicy returns a policy that permits every URL. Used for offline
// rebuilds where no live requests are made.
func AllowAllPolicy() *RobotsPolicy {
	return &RobotsPolicy{}
}

// Allow reports whether the URL may be fetched.
func (p *RobotsPolicy) Allow(rawURL string) bool {
	if p.group == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return p.group.Test(u.Path)
}
