package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Bundle Storage
// The store assembles the docset in a temp directory and publishes it on commit

func TestDocsetStore_SavesDocumentsUnderStagedBundle(t *testing.T) {
	t.Parallel()

	// Given a store targeting a base directory
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")

	// When I save a document
	err := store.SaveDocument(context.Background(), "developers.raycast.com/basics/install/index.html", []byte("<html></html>"))

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the staged bundle under the Dash documents directory
	staged := filepath.Join(base, "Raycast.docset.tmp", "Contents", "Resources", "Documents",
		"developers.raycast.com", "basics", "install", "index.html")
	_, err = os.Stat(staged)
	require.NoError(t, err, "document should exist in the staged bundle")

	// And the final bundle does not exist yet
	_, err = os.Stat(filepath.Join(base, "Raycast.docset"))
	assert.True(t, os.IsNotExist(err), "final bundle should not exist until commit")
}

func TestDocsetStore_CommitPublishesBundle(t *testing.T) {
	t.Parallel()

	// Given a store with a saved document
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")
	err := store.SaveDocument(context.Background(), "developers.raycast.com/index.html", []byte("<html></html>"))
	require.NoError(t, err)

	// When I commit
	err = store.Commit()

	// Then no error occurs
	require.NoError(t, err)

	// And the document is readable at its final location
	final := filepath.Join(base, "Raycast.docset", "Contents", "Resources", "Documents",
		"developers.raycast.com", "index.html")
	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "Raycast.docset.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestDocsetStore_CommitReplacesPreviousBundle(t *testing.T) {
	t.Parallel()

	// Given a previously committed bundle
	base := t.TempDir()
	old := fs.NewDocsetStore(base, "Raycast")
	err := old.SaveDocument(context.Background(), "stale.html", []byte("old"))
	require.NoError(t, err)
	require.NoError(t, old.Commit())

	// When a new build commits
	store := fs.NewDocsetStore(base, "Raycast")
	err = store.SaveDocument(context.Background(), "fresh.html", []byte("new"))
	require.NoError(t, err)
	err = store.Commit()
	require.NoError(t, err)

	// Then the new document is present
	docs := filepath.Join(base, "Raycast.docset", "Contents", "Resources", "Documents")
	_, err = os.Stat(filepath.Join(docs, "fresh.html"))
	require.NoError(t, err)

	// And the stale document from the previous bundle is gone
	_, err = os.Stat(filepath.Join(docs, "stale.html"))
	assert.True(t, os.IsNotExist(err), "commit should replace the bundle, not merge into it")
}

func TestDocsetStore_AbortDiscardsStagedBundle(t *testing.T) {
	t.Parallel()

	// Given a store with a saved document
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")
	err := store.SaveDocument(context.Background(), "index.html", []byte("<html></html>"))
	require.NoError(t, err)

	// When I abort
	err = store.Abort()

	// Then no error occurs
	require.NoError(t, err)

	// And neither the temp nor the final bundle exists
	_, err = os.Stat(filepath.Join(base, "Raycast.docset.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "Raycast.docset"))
	assert.True(t, os.IsNotExist(err), "final bundle should not exist after abort")
}

func TestDocsetStore_RejectsPathEscape(t *testing.T) {
	t.Parallel()

	// Given a store
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")

	// When I try to save outside the documents directory
	err := store.SaveDocument(context.Background(), "../../../etc/passwd", []byte("bad"))

	// Then the path is rejected as invalid
	require.Error(t, err)
	assert.Equal(t, docset.EINVALID, docset.ErrorCode(err))

	// And absolute paths are rejected too
	err = store.SaveDocument(context.Background(), "/etc/passwd", []byte("bad"))
	require.Error(t, err)
	assert.Equal(t, docset.EINVALID, docset.ErrorCode(err))
}

func TestDocsetStore_SavesPlistAtBundleRoot(t *testing.T) {
	t.Parallel()

	// Given a store
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")

	// When I save the plist and commit
	err := store.SavePlist(context.Background(), []byte("<plist/>"))
	require.NoError(t, err)
	require.NoError(t, store.Commit())

	// Then Info.plist sits next to Resources, not inside Documents
	data, err := os.ReadFile(filepath.Join(base, "Raycast.docset", "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Equal(t, "<plist/>", string(data))
}

func TestDocsetStore_SavesIconAtBothDensities(t *testing.T) {
	t.Parallel()

	// Given a store
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")

	// When I save an icon and commit
	err := store.SaveIcon(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, store.Commit())

	// Then both icon files exist at the bundle root with the same content
	bundle := filepath.Join(base, "Raycast.docset")
	icon, err := os.ReadFile(filepath.Join(bundle, "icon.png"))
	require.NoError(t, err)
	icon2x, err := os.ReadFile(filepath.Join(bundle, "icon@2x.png"))
	require.NoError(t, err)
	assert.Equal(t, icon, icon2x)
}

func TestDocsetStore_IndexPathIsStagedUntilCommit(t *testing.T) {
	t.Parallel()

	// Given a store
	base := t.TempDir()
	store := fs.NewDocsetStore(base, "Raycast")

	// Then the index path points into the staged bundle
	assert.Equal(t,
		filepath.Join(base, "Raycast.docset.tmp", "Contents", "Resources", "docSet.dsidx"),
		store.IndexPath())

	// And the bundle path points at the final location
	assert.Equal(t, filepath.Join(base, "Raycast.docset"), store.Path())
}
