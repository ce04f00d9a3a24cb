package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/BrianJenney/brian-clone/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const watchURL = "https://www.youtube.com/watch"

// minTranscriptChars rejects caption tracks too short to be a usable
// transcript, such as intro-only captions.
const minTranscriptChars = 200

// ErrNoCaptions is returned when the watch page carries no caption track,
// meaning the video has no transcript to ingest.
var ErrNoCaptions = goerr.New("no caption track found for video")

// ErrTranscriptTooShort is returned when the caption track resolves to less
// text than minTranscriptChars.
var ErrTranscriptTooShort = goerr.New("transcript too short")

// TranscriptClient fetches a video's caption transcript. The watch page embeds
// its caption track URLs as a JSON blob, so no API key is needed, at the cost
// of depending on the page structure.
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

type TranscriptOption func(*TranscriptClient)

// WithTranscriptHTTPClient overrides the HTTP client, mainly for tests
func WithTranscriptHTTPClient(c *http.Client) TranscriptOption {
	return func(t *TranscriptClient) {
		t.httpClient = c
	}
}

// WithTranscriptBaseURL overrides the watch page URL, mainly for tests
func WithTranscriptBaseURL(base string) TranscriptOption {
	return func(t *TranscriptClient) {
		t.baseURL = base
	}
}

func NewTranscriptClient(options ...TranscriptOption) *TranscriptClient {
	client := &TranscriptClient{
		httpClient: http.DefaultClient,
		baseURL:    watchURL,
		userAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Fetch returns the full caption text of the given video
func (t *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	params := url.Values{"v": {videoID}}
	page, err := t.get(ctx, t.baseURL+"?"+params.Encode())
	if err != nil {
		return "", goerr.Wrap(err, "failed to load watch page", goerr.V("videoID", videoID))
	}

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return "", goerr.Wrap(err, "failed to locate caption tracks", goerr.V("videoID", videoID))
	}

	track := pickCaptionTrack(tracks)
	raw, err := t.get(ctx, track.BaseURL)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch caption track", goerr.V("videoID", videoID))
	}

	text, err := renderTimedText(raw)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse caption track", goerr.V("videoID", videoID))
	}
	if len(text) < minTranscriptChars {
		return "", goerr.Wrap(ErrTranscriptTooShort, "caption track below threshold",
			goerr.V("videoID", videoID),
			goerr.V("chars", len(text)),
		)
	}
	return text, nil
}

func (t *TranscriptClient) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build request")
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status", goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read response body")
	}
	return string(body), nil
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// extractCaptionTracks pulls the captionTracks array out of the player
// response blob embedded in the watch page.
func extractCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, ErrNoCaptions
	}

	raw := page[idx+len(marker):]
	end := closingBracket(raw)
	if end < 0 {
		return nil, goerr.New("unterminated caption track array")
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(raw[:end+1]), &tracks); err != nil {
		return nil, goerr.Wrap(err, "failed to decode caption tracks")
	}
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}
	return tracks, nil
}

// closingBracket returns the index of the bracket closing the JSON array that
// s starts with, skipping brackets inside string literals.
func closingBracket(s string) int {
	if len(s) == 0 || s[0] != '[' {
		return -1
	}

	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// pickCaptionTrack prefers a manually authored English track, then any
// English track, then the first available.
func pickCaptionTrack(tracks []captionTrack) captionTrack {
	for _, track := range tracks {
		if strings.HasPrefix(track.LanguageCode, "en") && track.Kind != "asr" {
			return track
		}
	}
	for _, track := range tracks {
		if strings.HasPrefix(track.LanguageCode, "en") {
			return track
		}
	}
	return tracks[0]
}

type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// renderTimedText flattens a timedtext caption document into one string. The
// caption text arrives double-escaped, so one more unescape pass runs after
// XML decoding.
func renderTimedText(raw string) (string, error) {
	var doc timedText
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return "", goerr.Wrap(err, "failed to decode timedtext document")
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, entry := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(entry.Value))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "), nil
}
