package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const (
	defaultRecentVideoCount = 10
	defaultRecencyDays      = 7
)

// analyzeChannelTool reports recent performance of the configured channel
type analyzeChannelTool struct {
	analytics interfaces.ChannelAnalytics
	channelID string
}

// NewAnalyzeChannel builds the channel analytics tool bound to one channel
func NewAnalyzeChannel(analytics interfaces.ChannelAnalytics, channelID string) gollem.Tool {
	return &analyzeChannelTool{analytics: analytics, channelID: channelID}
}

func (t *analyzeChannelTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "analyze_channel",
		Description: "Analyze recent performance of the user's YouTube channel: views, engagement rate, and top performing videos",
		Parameters: map[string]*gollem.Parameter{
			"count": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("How many recent videos to analyze (default: %d)", defaultRecentVideoCount),
				Required:    false,
			},
		},
	}
}

func (t *analyzeChannelTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	count := defaultRecentVideoCount
	if v, err := extractInt(args, "count"); err == nil && v > 0 {
		count = v
	}

	Update(ctx, fmt.Sprintf("Analyzing the last %d channel videos", count))

	videos, err := t.analytics.FetchRecentVideos(ctx, t.channelID, count)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch recent videos",
			goerr.V("channel_id", t.channelID),
			goerr.V("count", count),
		)
	}

	report := youtube.BuildReport(t.channelID, videos)

	videoRows := make([]map[string]any, len(report.Videos))
	for i, v := range report.Videos {
		videoRows[i] = map[string]any{
			"title":          v.Title,
			"publishedAt":    v.PublishedAt.Format(time.RFC3339),
			"views":          v.Views,
			"likes":          v.Likes,
			"comments":       v.Comments,
			"engagementRate": v.EngagementRate(),
		}
	}
	topRows := make([]map[string]any, len(report.TopPerformers))
	for i, v := range report.TopPerformers {
		topRows[i] = map[string]any{
			"title":          v.Title,
			"views":          v.Views,
			"engagementRate": v.EngagementRate(),
		}
	}

	return map[string]any{
		"channelId":         report.ChannelID,
		"videos":            videoRows,
		"averageViews":      report.AverageViews,
		"averageEngagement": report.AverageEngagement,
		"topPerformers":     topRows,
	}, nil
}

// researchVideoTopicTool scrapes recent search results for a topic
type researchVideoTopicTool struct {
	scraper interfaces.SearchScraper
}

// NewResearchVideoTopic builds the topic research tool
func NewResearchVideoTopic(scraper interfaces.SearchScraper) gollem.Tool {
	return &researchVideoTopicTool{scraper: scraper}
}

func (t *researchVideoTopicTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "research_video_topic",
		Description: "Find recently published videos on a topic to gauge what is being made and how it performs",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Topic to research",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Maximum number of results (default: %d)", defaultSearchLimit),
				Required:    false,
			},
			"recency_days": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Lookback window in days (default: %d)", defaultRecencyDays),
				Required:    false,
			},
		},
	}
}

func (t *researchVideoTopicTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, goerr.New("query is required")
	}

	limit := defaultSearchLimit
	if v, err := extractInt(args, "limit"); err == nil && v > 0 {
		limit = v
	}
	recencyDays := defaultRecencyDays
	if v, err := extractInt(args, "recency_days"); err == nil && v > 0 {
		recencyDays = v
	}

	Update(ctx, fmt.Sprintf("Researching recent videos about: %s", query))

	results, err := t.scraper.SearchRecentResults(ctx, query, limit, time.Duration(recencyDays)*24*time.Hour)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to research video topic", goerr.V("query", query))
	}

	rows := make([]map[string]any, len(results))
	for i, r := range results {
		rows[i] = map[string]any{
			"title":   r.Title,
			"channel": r.Channel,
			"views":   r.ViewsText,
			"age":     r.AgeText,
			"url":     r.URL,
		}
	}
	return map[string]any{"results": rows}, nil
}
