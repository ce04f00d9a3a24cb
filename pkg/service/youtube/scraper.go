package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/utils/safe"
	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
)

const resultsURL = "https://www.youtube.com/results"

// Upload-date filter tokens for the results page sp parameter
const (
	filterLastHour  = "EgIIAQ=="
	filterToday     = "EgIIAg=="
	filterThisWeek  = "EgIIAw=="
	filterThisMonth = "EgIIBA=="
	filterThisYear  = "EgIIBQ=="
)

// ErrNoResultData is returned when the results page markup has no embedded
// ytInitialData blob, usually meaning YouTube served a consent or bot page.
var ErrNoResultData = goerr.New("no result data found in page")

// Scraper extracts recent search results from the YouTube results page. The
// page embeds its data as a JSON blob in an inline script, so no API key is
// needed, at the cost of depending on the page structure.
type Scraper struct {
	httpClient *http.Client
	cache      Cache
	baseURL    string
	userAgent  string
}

var _ interfaces.SearchScraper = (*Scraper)(nil)

type ScraperOption func(*Scraper)

// WithScraperHTTPClient overrides the HTTP client, mainly for tests
func WithScraperHTTPClient(c *http.Client) ScraperOption {
	return func(s *Scraper) {
		s.httpClient = c
	}
}

// WithScraperBaseURL overrides the results page URL, mainly for tests
func WithScraperBaseURL(base string) ScraperOption {
	return func(s *Scraper) {
		s.baseURL = base
	}
}

// WithScraperCache enables response caching
func WithScraperCache(cache Cache) ScraperOption {
	return func(s *Scraper) {
		s.cache = cache
	}
}

func NewScraper(options ...ScraperOption) *Scraper {
	scraper := &Scraper{
		httpClient: http.DefaultClient,
		cache:      NewNoopCache(),
		baseURL:    resultsURL,
		userAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
	for _, opt := range options {
		opt(scraper)
	}
	return scraper
}

func (s *Scraper) SearchRecentResults(ctx context.Context, query string, n int, recency time.Duration) ([]model.ResultSummary, error) {
	cacheKey := fmt.Sprintf("yt:search:%s:%d:%s", query, n, recency)
	if data, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached []model.ResultSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	params := url.Values{
		"search_query": {query},
		"sp":           {recencyFilter(recency)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build search request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "search request failed", goerr.V("query", query))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from results page",
			goerr.V("status", resp.StatusCode),
			goerr.V("query", query),
		)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse results page")
	}

	results, err := extractResults(doc, n)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract results", goerr.V("query", query))
	}

	if data, err := json.Marshal(results); err == nil {
		s.cache.Set(ctx, cacheKey, data, CacheTTL)
	}
	return results, nil
}

// recencyFilter maps a lookback window onto the nearest upload-date filter
func recencyFilter(recency time.Duration) string {
	switch {
	case recency <= time.Hour:
		return filterLastHour
	case recency <= 24*time.Hour:
		return filterToday
	case recency <= 7*24*time.Hour:
		return filterThisWeek
	case recency <= 31*24*time.Hour:
		return filterThisMonth
	default:
		return filterThisYear
	}
}

func extractResults(doc *goquery.Document, n int) ([]model.ResultSummary, error) {
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if idx := strings.Index(text, "var ytInitialData = "); idx >= 0 {
			raw = text[idx+len("var ytInitialData = "):]
			if end := strings.LastIndex(raw, "};"); end >= 0 {
				raw = raw[:end+1]
			}
			return false
		}
		return true
	})
	if raw == "" {
		return nil, ErrNoResultData
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, goerr.Wrap(err, "failed to decode embedded result data")
	}

	var results []model.ResultSummary
	collectVideoRenderers(data, &results, n)
	return results, nil
}

// collectVideoRenderers walks the embedded data tree for videoRenderer
// objects, which hold one search result each.
func collectVideoRenderers(node any, results *[]model.ResultSummary, n int) {
	if len(*results) >= n {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		if renderer, ok := v["videoRenderer"].(map[string]any); ok {
			if summary, ok := summarizeRenderer(renderer); ok {
				*results = append(*results, summary)
				if len(*results) >= n {
					return
				}
			}
		}
		for _, child := range v {
			collectVideoRenderers(child, results, n)
		}
	case []any:
		for _, child := range v {
			collectVideoRenderers(child, results, n)
		}
	}
}

func summarizeRenderer(renderer map[string]any) (model.ResultSummary, bool) {
	videoID, _ := renderer["videoId"].(string)
	if videoID == "" {
		return model.ResultSummary{}, false
	}

	summary := model.ResultSummary{
		Title:     firstRunText(renderer["title"]),
		Channel:   firstRunText(renderer["ownerText"]),
		ViewsText: simpleText(renderer["viewCountText"]),
		AgeText:   simpleText(renderer["publishedTimeText"]),
		URL:       "https://www.youtube.com/watch?v=" + videoID,
	}
	if summary.Title == "" {
		return model.ResultSummary{}, false
	}
	return summary, true
}

func firstRunText(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	runs, ok := m["runs"].([]any)
	if !ok || len(runs) == 0 {
		return ""
	}
	run, ok := runs[0].(map[string]any)
	if !ok {
		return ""
	}
	text, _ := run["text"].(string)
	return text
}

func simpleText(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	text, _ := m["simpleText"].(string)
	return text
}
