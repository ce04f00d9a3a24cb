package youtube_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
)

func TestEngagementRate(t *testing.T) {
	v := model.VideoStats{Views: 1000, Likes: 80, Comments: 20}
	gt.Value(t, v.EngagementRate()).Equal(10.0)

	zero := model.VideoStats{Views: 0, Likes: 5, Comments: 5}
	gt.Value(t, zero.EngagementRate()).Equal(0.0)
}

func TestBuildReport(t *testing.T) {
	videos := []model.VideoStats{
		{VideoID: "v1", Title: "low", Views: 1000, Likes: 10},
		{VideoID: "v2", Title: "high", Views: 1000, Likes: 100},
		{VideoID: "v3", Title: "mid", Views: 2000, Likes: 80},
		{VideoID: "v4", Title: "top", Views: 100, Likes: 50},
	}

	report := youtube.BuildReport("UC123", videos)

	gt.Value(t, report.ChannelID).Equal("UC123")
	gt.Value(t, report.AverageViews).Equal(1025.0)
	gt.Array(t, report.TopPerformers).Length(3)
	gt.Value(t, report.TopPerformers[0].VideoID).Equal("v4")
	gt.Value(t, report.TopPerformers[1].VideoID).Equal("v2")

	// Input order preserved on the raw listing
	gt.Value(t, report.Videos[0].VideoID).Equal("v1")
}

func TestBuildReportEmpty(t *testing.T) {
	report := youtube.BuildReport("UC123", nil)
	gt.Value(t, report.AverageViews).Equal(0.0)
	gt.Array(t, report.TopPerformers).Length(0)
}

func TestFetchRecentVideos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("channelId")).Equal("UC123")
		gt.Value(t, r.URL.Query().Get("order")).Equal("date")
		w.Write([]byte(`{"items":[{"id":{"videoId":"v1"}},{"id":{"videoId":"v2"}}]}`)) //nolint:errcheck
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("id")).Equal("v1,v2")
		w.Write([]byte(`{"items":[
			{"id":"v1","snippet":{"title":"First","publishedAt":"2026-08-01T00:00:00Z"},"statistics":{"viewCount":"1200","likeCount":"100","commentCount":"20"}},
			{"id":"v2","snippet":{"title":"Second","publishedAt":"2026-08-10T00:00:00Z"},"statistics":{"viewCount":"300"}}
		]}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := youtube.NewAnalyticsClient("test-key",
		youtube.WithAnalyticsBaseURL(srv.URL),
		youtube.WithAnalyticsHTTPClient(srv.Client()),
	)

	videos, err := client.FetchRecentVideos(context.Background(), "UC123", 2)
	gt.NoError(t, err).Required()

	gt.Array(t, videos).Length(2)
	gt.Value(t, videos[0].Title).Equal("First")
	gt.Value(t, videos[0].Views).Equal(int64(1200))
	gt.Value(t, videos[0].PublishedAt).Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	// Missing statistics fields default to zero
	gt.Value(t, videos[1].Likes).Equal(int64(0))
}

func TestFetchRecentVideosAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	client := youtube.NewAnalyticsClient("test-key",
		youtube.WithAnalyticsBaseURL(srv.URL),
		youtube.WithAnalyticsHTTPClient(srv.Client()),
	)

	_, err := client.FetchRecentVideos(context.Background(), "UC123", 5)
	gt.Error(t, err)
}
