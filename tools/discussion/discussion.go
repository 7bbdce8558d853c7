package discussion

import (
	"context"
	"errors"

	"github.com/novafetch/novafetch/models"
	"github.com/novafetch/novafetch/tools/discussion/reddit"
)

// Searcher finds community discussion posts about a product.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.DiscussionPost, error)
}

type Provider string

const (
	RedditProvider Provider = "reddit"
)

var ErrUnsupportedProvider = errors.New("unsupported discussion provider")

// NewSearcher builds a discussion searcher for the given provider.
// baseURL and userAgent may be empty; the provider applies its defaults.
func NewSearcher(provider Provider, baseURL, userAgent string) (Searcher, error) {
	switch provider {
	case RedditProvider:
		return reddit.Search{BaseURL: baseURL, UserAgent: userAgent}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
