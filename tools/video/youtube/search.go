package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/novafetch/novafetch/models"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Search queries the YouTube Data API v3 for the single top video hit.
type Search struct {
	APIKey  string
	BaseURL string
}

func (s Search) Search(ctx context.Context, query string) (*models.VideoResult, error) {
	// https://developers.google.com/youtube/v3/docs/search/list
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query+" review")
	q.Set("type", "video")
	q.Set("maxResults", "1")
	q.Set("key", s.APIKey)

	req, err := http.NewRequestWithContext(ctx, "GET", base+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search returned status: %d", resp.StatusCode)
	}

	var raw struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Zero hits is a normal outcome, not an error.
	if len(raw.Items) == 0 {
		return nil, nil
	}
	top := raw.Items[0]
	return &models.VideoResult{
		Title:        top.Snippet.Title,
		VideoID:      top.ID.VideoID,
		ThumbnailURL: top.Snippet.Thumbnails.Medium.URL,
		ChannelTitle: top.Snippet.ChannelTitle,
	}, nil
}
