package dash_test

import (
	"strings"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset/dash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsetInfo_Plist(t *testing.T) {
	t.Parallel()

	info := dash.DocsetInfo{
		Identifier:     "raycast",
		Name:           "Raycast",
		PlatformFamily: "raycast",
		Keyword:        "raycast",
		IndexFilePath:  "developers.raycast.com/index.html",
		FallbackURL:    "https://developers.raycast.com/",
	}

	data, err := info.Plist()
	require.NoError(t, err)
	plist := string(data)

	t.Run("declares the plist document type", func(t *testing.T) {
		assert.Contains(t, plist, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, plist, `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">`)
		assert.Contains(t, plist, `<plist version="1.0">`)
	})

	t.Run("carries every key Dash requires", func(t *testing.T) {
		for key, value := range map[string]string{
			"CFBundleIdentifier":    "raycast",
			"CFBundleName":          "Raycast",
			"DocSetPlatformFamily":  "raycast",
			"dashIndexFilePath":     "developers.raycast.com/index.html",
			"DashDocSetKeyword":     "raycast",
			"DashDocSetFallbackURL": "https://developers.raycast.com/",
			"DashDocSetFamily":      "dashtoc",
		} {
			assert.Contains(t, plist, "<key>"+key+"</key>")
			assert.Contains(t, plist, "<string>"+value+"</string>")
		}
	})

	t.Run("marks the bundle as a Dash docset without JavaScript", func(t *testing.T) {
		assert.Contains(t, plist, "<key>isDashDocset</key>")
		assert.Contains(t, plist, "<true/>")
		assert.Contains(t, plist, "<key>isJavaScriptEnabled</key>")
		assert.Contains(t, plist, "<false/>")
		assert.Less(t, strings.Index(plist, "<true/>"), strings.Index(plist, "<false/>"))
	})

	t.Run("keeps a stable key order", func(t *testing.T) {
		keys := []string{
			"CFBundleIdentifier",
			"CFBundleName",
			"DocSetPlatformFamily",
			"isDashDocset",
			"isJavaScriptEnabled",
			"dashIndexFilePath",
			"DashDocSetKeyword",
			"DashDocSetFallbackURL",
			"DashDocSetFamily",
		}
		last := -1
		for _, key := range keys {
			pos := strings.Index(plist, "<key>"+key+"</key>")
			require.Greater(t, pos, last, key)
			last = pos
		}
	})

	t.Run("can enable JavaScript for rendered docs", func(t *testing.T) {
		enabled := info
		enabled.EnableJavaScript = true
		data, err := enabled.Plist()
		require.NoError(t, err)
		assert.NotContains(t, string(data), "<false/>")
	})
}
