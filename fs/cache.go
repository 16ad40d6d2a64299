package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/crawl"
)

// Ensure CacheFetcher implements docset.Fetcher at compile time.
var _ docset.Fetcher = (*CacheFetcher)(nil)

const manifestFile = "manifest.json"

// manifest records what the cache holds. It is rewritten after every
// stored response so an interrupted run keeps everything fetched so far.
type manifest struct {
	RunID   string                   `json:"run_id"`
	Created string                   `json:"created"`
	Entries map[string]manifestEntry `json:"entries"`
}

type manifestEntry struct {
	File        string `json:"file"`
	ContentType string `json:"content_type"`
	Digest      string `json:"digest"`
	FetchedAt   string `json:"fetched_at"`
}

// CacheFetcher implements docset.Fetcher backed by an on-disk response
// cache. Hits are served from disk; misses go to the wrapped fetcher and
// the response is stored. Without a wrapped fetcher the cache is the only
// source and misses fail, which lets a bundle be rebuilt fully offline.
type CacheFetcher struct {
	inner docset.Fetcher
	dir   string

	mu sync.Mutex
	m  *manifest
}

// NewCacheFetcher creates a cache at dir in front of inner, loading the
// manifest of any previous run.
func NewCacheFetcher(inner docset.Fetcher, dir string) (*CacheFetcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f := &CacheFetcher{inner: inner, dir: dir}
	if err := f.loadManifest(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewOfflineFetcher creates a fetcher that serves only from the cache at
// dir. URLs missing from the cache fail with EUNAVAILABLE.
func NewOfflineFetcher(dir string) (*CacheFetcher, error) {
	return NewCacheFetcher(nil, dir)
}

// Fetch returns the cached response for url, fetching and storing it on a
// miss. A cached file whose digest no longer matches the manifest is
// discarded and refetched.
func (f *CacheFetcher) Fetch(ctx context.Context, url string) (*docset.FetchResult, error) {
	if res, ok := f.fromCache(url); ok {
		return res, nil
	}

	if f.inner == nil {
		return nil, docset.Errorf(docset.EUNAVAILABLE, "%s is not cached and no live fetcher is configured", url)
	}

	res, err := f.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.store(url, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Close persists the manifest and closes the wrapped fetcher.
func (f *CacheFetcher) Close() error {
	f.mu.Lock()
	err := f.saveManifestLocked()
	f.mu.Unlock()

	if f.inner != nil {
		if cerr := f.inner.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (f *CacheFetcher) fromCache(url string) (*docset.FetchResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.m.Entries[url]
	if !ok {
		return nil, false
	}

	body, err := os.ReadFile(filepath.Join(f.dir, entry.File))
	if err != nil || crawl.ComputeHash(body) != entry.Digest {
		delete(f.m.Entries, url)
		return nil, false
	}

	return &docset.FetchResult{Body: body, ContentType: entry.ContentType}, true
}

func (f *CacheFetcher) store(url string, res *docset.FetchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := uuid.New().String() + ".body"
	if err := os.WriteFile(filepath.Join(f.dir, name), res.Body, 0644); err != nil {
		return err
	}

	f.m.Entries[url] = manifestEntry{
		File:        name,
		ContentType: res.ContentType,
		Digest:      crawl.ComputeHash(res.Body),
		FetchedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	return f.saveManifestLocked()
}

func (f *CacheFetcher) loadManifest() error {
	data, err := os.ReadFile(filepath.Join(f.dir, manifestFile))
	if os.IsNotExist(err) {
		f.m = &manifest{
			RunID:   uuid.New().String(),
			Created: time.Now().UTC().Format(time.RFC3339),
			Entries: make(map[string]manifestEntry),
		}
		return nil
	}
	if err != nil {
		return err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return docset.Errorf(docset.EINTERNAL, "cache manifest at %s is corrupt: %v", f.dir, err)
	}
	if m.Entries == nil {
		m.Entries = make(map[string]manifestEntry)
	}
	f.m = &m
	return nil
}

// saveManifestLocked writes the manifest through a temp file so a crash
// mid-write cannot corrupt it. Callers must hold mu.
func (f *CacheFetcher) saveManifestLocked() error {
	data, err := json.MarshalIndent(f.m, "", "  ")
	if err != nil {
		return err
	}

	tmp := filepath.Join(f.dir, manifestFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(f.dir, manifestFile))
}
