package youtube_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
)

func watchPage(timedTextURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><body>
<script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
  {"baseUrl":"%s/asr","languageCode":"en","kind":"asr"},
  {"baseUrl":"%s/manual","languageCode":"en","name":{"simpleText":"English"}},
  {"baseUrl":"%s/es","languageCode":"es"}
]}}};</script>
</body></html>`, timedTextURL, timedTextURL, timedTextURL)
}

func timedTextDocument() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?><transcript>`)
	sb.WriteString(`<text start="0" dur="2.1">so today we&amp;#39;re talking about Go</text>`)
	sb.WriteString(`<text start="2.1" dur="1.4"> </text>`)
	for i := 0; i < 20; i++ {
		sb.WriteString(`<text start="4" dur="2">channels make concurrency easier to reason about</text>`)
	}
	sb.WriteString(`</transcript>`)
	return sb.String()
}

func TestFetchTranscript(t *testing.T) {
	var trackPath string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("v")).Equal("abc123")
		w.Write([]byte(watchPage(srv.URL))) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		trackPath = r.URL.Path
		w.Write([]byte(timedTextDocument())) //nolint:errcheck
	})

	client := youtube.NewTranscriptClient(
		youtube.WithTranscriptBaseURL(srv.URL+"/watch"),
		youtube.WithTranscriptHTTPClient(srv.Client()),
	)

	text, err := client.Fetch(context.Background(), "abc123")
	gt.NoError(t, err).Required()

	// The manually authored English track wins over the generated one
	gt.Value(t, trackPath).Equal("/manual")

	gt.Value(t, strings.HasPrefix(text, "so today we're talking about Go")).Equal(true)
	gt.Value(t, strings.Contains(text, "channels make concurrency easier")).Equal(true)
	// Blank caption entries are dropped, not joined as stray spaces
	gt.Value(t, strings.Contains(text, "  ")).Equal(false)
}

func TestFetchTranscriptNoCaptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no captions here</p></body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := youtube.NewTranscriptClient(
		youtube.WithTranscriptBaseURL(srv.URL+"/watch"),
		youtube.WithTranscriptHTTPClient(srv.Client()),
	)

	_, err := client.Fetch(context.Background(), "abc123")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, youtube.ErrNoCaptions)).Equal(true)
}

func TestFetchTranscriptTooShort(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(watchPage(srv.URL))) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript><text start="0" dur="1">just an intro</text></transcript>`)) //nolint:errcheck
	})

	client := youtube.NewTranscriptClient(
		youtube.WithTranscriptBaseURL(srv.URL+"/watch"),
		youtube.WithTranscriptHTTPClient(srv.Client()),
	)

	_, err := client.Fetch(context.Background(), "abc123")
	gt.Error(t, err)
	gt.Value(t, errors.Is(err, youtube.ErrTranscriptTooShort)).Equal(true)
}
