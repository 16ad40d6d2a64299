package mock_test

import (
	"context"
	"testing"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	// Verify mock can be used where IndexWriter is expected
	var _ docset.IndexWriter = &mock.IndexWriter{}
}

func TestIndexWriter_CreateEntry(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CreateEntryFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *docset.Entry
		w := &mock.IndexWriter{
			CreateEntryFn: func(_ context.Context, entry *docset.Entry) error {
				calledWith = entry
				return nil
			},
		}

		entry := &docset.Entry{
			Name:   "Clipboard",
			Type:   docset.EntryTypeClass,
			Path:   "developers.raycast.com/api-reference/clipboard.html",
			Anchor: "clipboard",
		}

		err := w.CreateEntry(context.Background(), entry)

		require.NoError(t, err)
		assert.Equal(t, entry, calledWith)
	})
}
