package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const dataAPIBase = "https://www.googleapis.com/youtube/v3"

// topPerformerCount is how many videos a channel report highlights
const topPerformerCount = 3

// AnalyticsClient talks to the YouTube Data API v3. It resolves a channel's
// recent uploads and their view/like/comment statistics.
type AnalyticsClient struct {
	apiKey     string
	httpClient *http.Client
	cache      Cache
	baseURL    string
}

var _ interfaces.ChannelAnalytics = (*AnalyticsClient)(nil)

type AnalyticsOption func(*AnalyticsClient)

// WithAnalyticsHTTPClient overrides the HTTP client, mainly for tests
func WithAnalyticsHTTPClient(c *http.Client) AnalyticsOption {
	return func(a *AnalyticsClient) {
		a.httpClient = c
	}
}

// WithAnalyticsBaseURL overrides the API endpoint, mainly for tests
func WithAnalyticsBaseURL(base string) AnalyticsOption {
	return func(a *AnalyticsClient) {
		a.baseURL = strings.TrimSuffix(base, "/")
	}
}

// WithAnalyticsCache enables response caching
func WithAnalyticsCache(cache Cache) AnalyticsOption {
	return func(a *AnalyticsClient) {
		a.cache = cache
	}
}

func NewAnalyticsClient(apiKey string, options ...AnalyticsOption) *AnalyticsClient {
	client := &AnalyticsClient{
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		cache:      NewNoopCache(),
		baseURL:    dataAPIBase,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			PublishedAt time.Time `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (a *AnalyticsClient) FetchRecentVideos(ctx context.Context, channelID string, n int) ([]model.VideoStats, error) {
	cacheKey := fmt.Sprintf("yt:channel:%s:%d", channelID, n)
	if data, ok := a.cache.Get(ctx, cacheKey); ok {
		var cached []model.VideoStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	videoIDs, err := a.searchRecentVideoIDs(ctx, channelID, n)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	videos, err := a.fetchVideoStats(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(videos); err == nil {
		a.cache.Set(ctx, cacheKey, data, CacheTTL)
	}
	return videos, nil
}

func (a *AnalyticsClient) searchRecentVideoIDs(ctx context.Context, channelID string, n int) ([]string, error) {
	params := url.Values{
		"key":        {a.apiKey},
		"channelId":  {channelID},
		"part":       {"id"},
		"order":      {"date"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(n)},
	}

	var resp searchResponse
	if err := a.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to search channel videos", goerr.V("channel_id", channelID))
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (a *AnalyticsClient) fetchVideoStats(ctx context.Context, videoIDs []string) ([]model.VideoStats, error) {
	params := url.Values{
		"key":  {a.apiKey},
		"id":   {strings.Join(videoIDs, ",")},
		"part": {"snippet,statistics"},
	}

	var resp videosResponse
	if err := a.getJSON(ctx, "/videos", params, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch video statistics")
	}

	videos := make([]model.VideoStats, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, model.VideoStats{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			PublishedAt: item.Snippet.PublishedAt,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			Comments:    parseCount(item.Statistics.CommentCount),
		})
	}
	return videos, nil
}

func (a *AnalyticsClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build request")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status from YouTube API",
			goerr.V("status", resp.StatusCode),
			goerr.V("path", path),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response")
	}
	return nil
}

// parseCount tolerates missing statistics fields, which the API omits for
// videos with disabled counters.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// BuildReport aggregates per-video stats into a channel report with averages
// and the top performers by engagement rate.
func BuildReport(channelID string, videos []model.VideoStats) model.ChannelReport {
	report := model.ChannelReport{
		ChannelID: channelID,
		Videos:    videos,
	}
	if len(videos) == 0 {
		return report
	}

	var totalViews int64
	var totalEngagement float64
	for _, v := range videos {
		totalViews += v.Views
		totalEngagement += v.EngagementRate()
	}
	report.AverageViews = float64(totalViews) / float64(len(videos))
	report.AverageEngagement = totalEngagement / float64(len(videos))

	ranked := make([]model.VideoStats, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementRate() > ranked[j].EngagementRate()
	})
	top := topPerformerCount
	if top > len(ranked) {
		top = len(ranked)
	}
	report.TopPerformers = ranked[:top]

	return report
}
