package youtube_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
)

const resultsPage = `<!DOCTYPE html>
<html><head><title>results</title></head><body>
<script>var other = 1;</script>
<script>var ytInitialData = {"contents":{"sectionList":{"items":[
  {"videoRenderer":{"videoId":"abc123","title":{"runs":[{"text":"Learn Go in 2026"}]},"ownerText":{"runs":[{"text":"Code Channel"}]},"viewCountText":{"simpleText":"120K views"},"publishedTimeText":{"simpleText":"3 days ago"}}},
  {"adRenderer":{"ignored":true}},
  {"videoRenderer":{"videoId":"def456","title":{"runs":[{"text":"Go vs Rust"}]},"ownerText":{"runs":[{"text":"Another Channel"}]},"viewCountText":{"simpleText":"8K views"},"publishedTimeText":{"simpleText":"1 day ago"}}},
  {"videoRenderer":{"videoId":"ghi789","title":{"runs":[{"text":"Third Result"}]},"ownerText":{"runs":[{"text":"Ch3"}]},"viewCountText":{"simpleText":"1K views"},"publishedTimeText":{"simpleText":"5 hours ago"}}}
]}}};</script>
</body></html>`

func TestSearchRecentResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("search_query")).Equal("golang tutorial")
		gt.Value(t, r.URL.Query().Get("sp") != "").Equal(true)
		w.Write([]byte(resultsPage)) //nolint:errcheck
	}))
	defer srv.Close()

	scraper := youtube.NewScraper(
		youtube.WithScraperBaseURL(srv.URL),
		youtube.WithScraperHTTPClient(srv.Client()),
	)

	results, err := scraper.SearchRecentResults(context.Background(), "golang tutorial", 2, 7*24*time.Hour)
	gt.NoError(t, err).Required()

	gt.Array(t, results).Length(2)
	gt.Value(t, results[0].Title).Equal("Learn Go in 2026")
	gt.Value(t, results[0].Channel).Equal("Code Channel")
	gt.Value(t, results[0].ViewsText).Equal("120K views")
	gt.Value(t, results[0].AgeText).Equal("3 days ago")
	gt.Value(t, results[0].URL).Equal("https://www.youtube.com/watch?v=abc123")
	gt.Value(t, results[1].Title).Equal("Go vs Rust")
}

func TestSearchRecentResultsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>consent page</p></body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	scraper := youtube.NewScraper(
		youtube.WithScraperBaseURL(srv.URL),
		youtube.WithScraperHTTPClient(srv.Client()),
	)

	_, err := scraper.SearchRecentResults(context.Background(), "anything", 5, time.Hour)
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, youtube.ErrNoResultData)).Equal(true)
}
