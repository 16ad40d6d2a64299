package mock

import (
	"context"

	"github.com/ichoosetoaccept/raycast-docset"
)

var _ docset.BundleStore = (*BundleStore)(nil)

// BundleStore is a mock implementation of docset.BundleStore.
type BundleStore struct {
	SaveDocumentFn  func(ctx context.Context, rel string, data []byte) error
	SavePlistFn     func(ctx context.Context, data []byte) error
	SaveIconFn      func(ctx context.Context, data []byte) error
	IndexPathFn     func() string
	DocumentsPathFn func() string
	CommitFn        func() error
	AbortFn         func() error
}

func (s *BundleStore) SaveDocument(ctx context.Context, rel string, data []byte) error {
	return s.SaveDocumentFn(ctx, rel, data)
}

func (s *BundleStore) SavePlist(ctx context.Context, data []byte) error {
	return s.SavePlistFn(ctx, data)
}

func (s *BundleStore) SaveIcon(ctx context.Context, data []byte) error {
	return s.SaveIconFn(ctx, data)
}

func (s *BundleStore) IndexPath() string {
	return s.IndexPathFn()
}

func (s *BundleStore) DocumentsPath() string {
	return s.DocumentsPathFn()
}

func (s *BundleStore) Commit() error {
	return s.CommitFn()
}

func (s *BundleStore) Abort() error {
	return s.AbortFn()
}
