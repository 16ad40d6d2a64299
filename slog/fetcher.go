// Package slog provides logging decorators for the application's service
// interfaces, built on the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Ensure LoggingFetcher implements docset.Fetcher.
var _ docset.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   docset.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docset.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *docset.FetchResult, err error) {
	defer func(begin time.Time) {
		var bytes int
		if res != nil {
			bytes = len(res.Body)
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
