package video

import (
	"context"
	"errors"

	"github.com/novafetch/novafetch/models"
	"github.com/novafetch/novafetch/tools/video/youtube"
)

// Searcher finds the top review video for a product. A nil result with a nil
// error means the provider had no hits, which is not a failure.
type Searcher interface {
	Search(ctx context.Context, query string) (*models.VideoResult, error)
}

type Provider string

const (
	YouTubeProvider Provider = "youtube"
)

var ErrUnsupportedProvider = errors.New("unsupported video provider")

// NewSearcher builds a video searcher for the given provider.
func NewSearcher(provider Provider, apiKey, baseURL string) (Searcher, error) {
	switch provider {
	case YouTubeProvider:
		return youtube.Search{APIKey: apiKey, BaseURL: baseURL}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
