package docset_test

import (
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/stretchr/testify/assert"
)

func TestEntry_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid entry passes", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{
			Name: "AI.ask",
			Type: docset.EntryTypeMethod,
			Path: "developers.raycast.com/api-reference/ai/index.html",
		}

		assert.NoError(t, entry.Validate())
	})

	t.Run("requires name", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{Type: docset.EntryTypeGuide, Path: "x/index.html"}

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(entry.Validate()))
	})

	t.Run("requires a known entry type", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{Name: "AI", Type: "Widget", Path: "x/index.html"}

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(entry.Validate()))
	})

	t.Run("requires path", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{Name: "AI", Type: docset.EntryTypeClass}

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(entry.Validate()))
	})
}

func TestEntry_ResolvedPath(t *testing.T) {
	t.Parallel()

	t.Run("returns path when no anchor is set", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{
			Name: "AI",
			Type: docset.EntryTypeClass,
			Path: "developers.raycast.com/api-reference/ai/index.html",
		}

		assert.Equal(t, "developers.raycast.com/api-reference/ai/index.html", entry.ResolvedPath())
	})

	t.Run("appends the anchor as a fragment", func(t *testing.T) {
		t.Parallel()

		entry := &docset.Entry{
			Name:   "ask",
			Type:   docset.EntryTypeMethod,
			Path:   "developers.raycast.com/api-reference/ai/index.html",
			Anchor: "ai-ask",
		}

		assert.Equal(t, "developers.raycast.com/api-reference/ai/index.html#ai-ask", entry.ResolvedPath())
	})
}

func TestValidEntryType(t *testing.T) {
	t.Parallel()

	for _, typ := range []docset.EntryType{
		docset.EntryTypeClass,
		docset.EntryTypeComponent,
		docset.EntryTypeFunction,
		docset.EntryTypeGuide,
		docset.EntryTypeHook,
		docset.EntryTypeMethod,
		docset.EntryTypeProperty,
		docset.EntryTypeSample,
		docset.EntryTypeSection,
		docset.EntryTypeType,
	} {
		assert.True(t, docset.ValidEntryType(typ), "expected %q to be valid", typ)
	}

	assert.False(t, docset.ValidEntryType("Widget"))
	assert.False(t, docset.ValidEntryType(""))
}

func TestPage_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid page passes", func(t *testing.T) {
		t.Parallel()

		page := &docset.Page{
			URL:         "https://developers.raycast.com/basics",
			OfflinePath: "developers.raycast.com/basics/index.html",
		}

		assert.NoError(t, page.Validate())
	})

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()

		page := &docset.Page{OfflinePath: "x/index.html"}

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(page.Validate()))
	})

	t.Run("requires offline path", func(t *testing.T) {
		t.Parallel()

		page := &docset.Page{URL: "https://developers.raycast.com/basics"}

		assert.Equal(t, docset.EINVALID, docset.ErrorCode(page.Validate()))
	})
}
