package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/novafetch/novafetch/models"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "novafetch/0.1"
)

// Search queries Reddit's public search endpoint anonymously. No API key is
// required; Reddit only insists on a descriptive User-Agent.
type Search struct {
	BaseURL   string
	UserAgent string
}

func (s Search) Search(ctx context.Context, query string, limit int) ([]models.DiscussionPost, error) {
	// https://www.reddit.com/search.json?q=<query review>&limit=N
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("q", query+" review")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, "GET", base+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	ua := s.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit search returned status: %d", resp.StatusCode)
	}

	var raw struct {
		Data struct {
			Children []struct {
				Data struct {
					Title     string `json:"title"`
					Selftext  string `json:"selftext"`
					Ups       int    `json:"ups"`
					Permalink string `json:"permalink"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var out []models.DiscussionPost
	for i, child := range raw.Data.Children {
		if i >= limit {
			break
		}
		out = append(out, models.DiscussionPost{
			Title:   child.Data.Title,
			Content: child.Data.Selftext,
			Upvotes: child.Data.Ups,
			URL:     "https://reddit.com" + child.Data.Permalink,
		})
	}
	return out, nil
}
