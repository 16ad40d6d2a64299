package docset

// LinkExtractor extracts references from fetched page content.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs of all hyperlinks in the
	// page, resolved against the page URL, in document order. Raw hrefs
	// that do not parse are skipped.
	ExtractLinks(page *Page) ([]string, error)

	// ExtractAssets returns the absolute URLs of static assets the page
	// references (stylesheets, scripts, images, icons, preloads),
	// resolved against the page URL, in document order.
	ExtractAssets(page *Page) ([]string, error)
}
