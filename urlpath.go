package docset

import (
	"net/url"
	"path"
	"strings"
)

// OfflinePath maps a URL to the bundle-relative file path where its
// content is stored. The mapping is pure and deterministic, and injective
// over normalized URLs: distinct normalized URLs always map to distinct
// paths, so a link rewritten offline resolves to exactly one file.
//
// The host becomes the top-level directory. The root path and
// extensionless paths gain an index.html so directories stay browsable:
//
//	https://developers.raycast.com/                 -> developers.raycast.com/index.html
//	https://developers.raycast.com/api-reference/ai -> developers.raycast.com/api-reference/ai/index.html
//	https://example.com/assets/site.css             -> example.com/assets/site.css
func OfflinePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	p := u.Path
	if p == "" || p == "/" {
		return u.Host + "/index.html", nil
	}
	p = strings.TrimPrefix(p, "/")
	switch {
	case strings.HasSuffix(p, "/"):
		p += "index.html"
	case !strings.Contains(path.Base(p), "."):
		p += "/index.html"
	}
	return u.Host + "/" + p, nil
}
