package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Ensure LoggingSource implements docset.URLSource.
var _ docset.URLSource = (*LoggingSource)(nil)

// LoggingSource wraps a URLSource with debug logging.
type LoggingSource struct {
	next   docset.URLSource
	name   string
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource. The name identifies the
// discovery mechanism in log output, e.g. "llms.txt" or "sitemap".
func NewLoggingSource(next docset.URLSource, name string, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, name: name, logger: logger}
}

// DiscoverURLs delegates to the wrapped source and logs the operation.
func (s *LoggingSource) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("url discovery",
			"source", s.name,
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL)
}
