package docset

import (
	"net/url"
	"strings"
)

// Scope defines which URLs belong to the documentation set being crawled.
// Pages must live on the canonical host under the path prefix; assets may
// additionally come from the configured asset hosts (CDNs).
type Scope struct {
	// Canonical documentation host, including port if any.
	Host string

	// Optional path prefix pages must live under. Empty means the whole host.
	PathPrefix string

	// Additional hosts assets may be fetched from. Entries match by
	// substring, so "gitbook" covers every GitBook CDN host.
	AssetHosts []string
}

// ScopeFor builds the scope implied by a documentation base URL.
func ScopeFor(baseURL string) (*Scope, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "base URL %q has no host", baseURL)
	}
	prefix := strings.TrimSuffix(u.Path, "/")
	return &Scope{
		Host:       strings.ToLower(u.Host),
		PathPrefix: prefix,
		AssetHosts: []string{"gitbook"},
	}, nil
}

// AllowsPage returns true if the URL identifies a page inside the
// documentation set. URLs with query strings never qualify: the
// documentation tree is path-addressed and query variants would break
// the one-URL-one-file mapping.
func (s *Scope) AllowsPage(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !strings.EqualFold(u.Host, s.Host) {
		return false
	}
	if u.RawQuery != "" {
		return false
	}
	if s.PathPrefix != "" && u.Path != s.PathPrefix && !strings.HasPrefix(u.Path, s.PathPrefix+"/") {
		return false
	}
	return true
}

// AllowsAsset returns true if the URL identifies a static asset the
// bundle may include: anything on the documentation host, or on one of
// the configured asset hosts.
func (s *Scope) AllowsAsset(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Host)
	if host == strings.ToLower(s.Host) {
		return true
	}
	for _, h := range s.AssetHosts {
		if h != "" && strings.Contains(host, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

// NormalizeURL returns the canonical form of a URL so that every page has
// exactly one key: scheme and host lowercased, fragment stripped, path
// percent-decoding canonicalized, trailing slash trimmed (the root path
// stays "/"), and a trailing "/index.html" segment folded into its
// directory URL. Query strings are preserved; scope filtering rejects
// them separately.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported scheme %q in URL %q", u.Scheme, rawURL)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	// Work from the decoded path so "%7E" and "~" produce the same key,
	// then let URL re-encode it canonically.
	u.RawPath = ""
	p := u.Path
	p = strings.TrimSuffix(p, "/index.html")
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		p = "/"
	}
	u.Path = p

	return u.String(), nil
}

// NormalizeAssetURL returns the canonical form of an asset reference.
// Asset URLs often carry cache-busting query strings; the query does not
// change the stored file, so it is dropped along with the fragment.
func NormalizeAssetURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return NormalizeURL(u.String())
}
