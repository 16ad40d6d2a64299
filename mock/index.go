package mock

import (
	"context"

	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of docset.IndexWriter.
type IndexWriter struct {
	CreateEntryFn func(ctx context.Context, entry *docset.Entry) error
}

func (w *IndexWriter) CreateEntry(ctx context.Context, entry *docset.Entry) error {
	return w.CreateEntryFn(ctx, entry)
}

var _ docset.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of docset.IndexService.
type IndexService struct {
	CreateEntryFn  func(ctx context.Context, entry *docset.Entry) error
	FindEntriesFn  func(ctx context.Context, filter docset.EntryFilter) ([]*docset.Entry, error)
	CountEntriesFn func(ctx context.Context) (int, error)
}

func (s *IndexService) CreateEntry(ctx context.Context, entry *docset.Entry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *IndexService) FindEntries(ctx context.Context, filter docset.EntryFilter) ([]*docset.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *IndexService) CountEntries(ctx context.Context) (int, error) {
	return s.CountEntriesFn(ctx)
}
