package config

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
)

// YouTube holds configuration for channel analytics and topic research
type YouTube struct {
	apiKey    string
	channelID string
	redisAddr string
}

// Flags returns CLI flags for YouTube configuration
func (y *YouTube) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "youtube-api-key",
			Usage:       "YouTube Data API key for channel analytics",
			Sources:     cli.EnvVars("BRIANCLONE_YOUTUBE_API_KEY"),
			Destination: &y.apiKey,
		},
		&cli.StringFlag{
			Name:        "youtube-channel-id",
			Usage:       "Channel ID analyzed by the video research agent",
			Sources:     cli.EnvVars("BRIANCLONE_YOUTUBE_CHANNEL_ID"),
			Destination: &y.channelID,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for response caching (disabled if empty)",
			Sources:     cli.EnvVars("BRIANCLONE_REDIS_ADDR"),
			Destination: &y.redisAddr,
		},
	}
}

// LogAttrs returns log attributes for the YouTube configuration
func (y *YouTube) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("channel_id", y.channelID),
		slog.Bool("api_key", y.apiKey != ""),
		slog.Bool("cache", y.redisAddr != ""),
	}
}

// ChannelID returns the configured channel ID
func (y *YouTube) ChannelID() string {
	return y.channelID
}

// Configure creates the analytics client and search scraper, sharing one
// cache when Redis is configured.
func (y *YouTube) Configure() (*youtube.AnalyticsClient, *youtube.Scraper) {
	cache := youtube.NewNoopCache()
	if y.redisAddr != "" {
		cache = youtube.NewRedisCache(redis.NewClient(&redis.Options{Addr: y.redisAddr}))
	}

	analytics := youtube.NewAnalyticsClient(y.apiKey, youtube.WithAnalyticsCache(cache))
	scraper := youtube.NewScraper(youtube.WithScraperCache(cache))
	return analytics, scraper
}
