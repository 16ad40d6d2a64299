// Package docset generates an offline, searchable Dash docset from the
// Raycast developer documentation site. It crawls every in-scope page,
// classifies each page's structure into typed index entries, rewrites
// page content for offline use, and commits the resulting bundle
// (documents tree + SQLite search index + Info.plist) atomically.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package docset
