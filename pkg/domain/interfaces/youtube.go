package interfaces

import (
	"context"
	"time"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
)

// ChannelAnalytics fetches per-video performance numbers for a channel
type ChannelAnalytics interface {
	FetchRecentVideos(ctx context.Context, channelID string, n int) ([]model.VideoStats, error)
}

// SearchScraper collects recent search results for a topic query
type SearchScraper interface {
	SearchRecentResults(ctx context.Context, query string, n int, recency time.Duration) ([]model.ResultSummary, error)
}
