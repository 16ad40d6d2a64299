package dash

import (
	"github.com/beevik/etree"
)

// DocsetInfo is the bundle metadata Dash reads from Info.plist.
type DocsetInfo struct {
	Identifier     string
	Name           string
	PlatformFamily string
	Keyword        string
	IndexFilePath  string
	FallbackURL    string

	// EnableJavaScript controls whether Dash executes scripts in bundled
	// pages. Stays off: every page is pre-rendered.
	EnableJavaScript bool
}

// Plist renders the Info.plist document. Key order is fixed so rebuilt
// bundles diff cleanly.
func (info DocsetInfo) Plist() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString := func(key, value string) {
		dict.CreateElement("key").SetText(key)
		dict.CreateElement("string").SetText(value)
	}
	addBool := func(key string, value bool) {
		dict.CreateElement("key").SetText(key)
		if value {
			dict.CreateElement("true")
		} else {
			dict.CreateElement("false")
		}
	}

	addString("CFBundleIdentifier", info.Identifier)
	addString("CFBundleName", info.Name)
	addString("DocSetPlatformFamily", info.PlatformFamily)
	addBool("isDashDocset", true)
	addBool("isJavaScriptEnabled", info.EnableJavaScript)
	addString("dashIndexFilePath", info.IndexFilePath)
	addString("DashDocSetKeyword", info.Keyword)
	addString("DashDocSetFallbackURL", info.FallbackURL)
	addString("DashDocSetFamily", "dashtoc")

	doc.Indent(4)
	return doc.WriteToBytes()
}
