package crawl

import (
	"sync"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/bloom"
)

// Compile-time interface verification.
var _ docset.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with exactly-once admission.
// Callers push normalized URLs; keys are compared byte-wise. A Bloom
// filter answers the common "definitely new" case cheaply, backed by an
// exact seen-set so a filter false positive can never drop a URL.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	fast  *bloom.Filter
	seen  map[string]struct{}
	queue []string
	head  int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the admission pre-test.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		fast: bloom.NewFilter(n, fpRate),
		seen: make(map[string]struct{}),
	}
}

// Push adds a URL to the queue.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fast.TestAndAdd(url) {
		// Possibly seen before; the filter can report false positives,
		// so confirm against the exact set before rejecting.
		if _, ok := f.seen[url]; ok {
			return false
		}
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the next URL in admission order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head >= len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 >= len(f.queue) {
		f.queue = append([]string(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return url, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[url]
	return ok
}

// SeenCount returns the number of distinct URLs admitted so far.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
