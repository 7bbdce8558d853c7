package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchTopHit(t *testing.T) {
	var gotQ, gotMax, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQ = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"items":[{
			"id":{"videoId":"dQw4w9WgXcQ"},
			"snippet":{"title":"Pixel 9 Review","channelTitle":"MKBHD",
				"thumbnails":{"medium":{"url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg"}}}
		}]}`))
	}))
	defer srv.Close()

	v, err := Search{APIKey: "test-key", BaseURL: srv.URL}.Search(context.Background(), "Pixel 9")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQ != "Pixel 9 review" || gotMax != "1" || gotKey != "test-key" {
		t.Fatalf("unexpected request: q=%q maxResults=%q key=%q", gotQ, gotMax, gotKey)
	}
	if v == nil {
		t.Fatalf("expected a video result")
	}
	if v.VideoID != "dQw4w9WgXcQ" || v.Title != "Pixel 9 Review" || v.ChannelTitle != "MKBHD" {
		t.Fatalf("unexpected video: %+v", v)
	}
	if v.ThumbnailURL != "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg" {
		t.Fatalf("unexpected thumbnail: %q", v.ThumbnailURL)
	}
}

func TestSearchNoHitsIsNilNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	v, err := Search{APIKey: "k", BaseURL: srv.URL}.Search(context.Background(), "Obscure Product 9000")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil video for zero hits, got %+v", v)
	}
}

func TestSearchNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := (Search{APIKey: "k", BaseURL: srv.URL}).Search(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for 403 response")
	}
}
