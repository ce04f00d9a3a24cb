package model

import "time"

// VideoStats holds per-video performance numbers from the channel analytics API
type VideoStats struct {
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
}

// EngagementRate is the percentage of viewers who liked or commented.
// Returns 0 for videos with no recorded views.
func (v VideoStats) EngagementRate() float64 {
	if v.Views == 0 {
		return 0
	}
	return float64(v.Likes+v.Comments) / float64(v.Views) * 100
}

// ChannelReport aggregates recent channel performance for the video research agent
type ChannelReport struct {
	ChannelID         string       `json:"channelId"`
	Videos            []VideoStats `json:"videos"`
	AverageViews      float64      `json:"averageViews"`
	AverageEngagement float64      `json:"averageEngagement"`
	TopPerformers     []VideoStats `json:"topPerformers"`
}

// ResultSummary is one scraped search result used for topic research
type ResultSummary struct {
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	ViewsText string `json:"views"`
	AgeText   string `json:"age"`
	URL       string `json:"url"`
}
