package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/storelens/storelens"
)

// Ensure LoggingSitemapService implements storelens.SitemapService.
var _ storelens.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with discovery logging.
type LoggingSitemapService struct {
	next   storelens.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next storelens.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverProductURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverProductURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverProductURLs(ctx, baseURL)
}
