package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/novafetch/novafetch/internal/cache"
	"github.com/novafetch/novafetch/models"
	"github.com/novafetch/novafetch/provider"
	"github.com/novafetch/novafetch/tools/discussion"
	"github.com/novafetch/novafetch/tools/video"
)

// ErrEmptyTerm is returned for a search term that is empty after trimming.
var ErrEmptyTerm = errors.New("empty search term")

// discussionLimit caps how many discussion posts are requested per search.
const discussionLimit = 5

// ReviewStore is the slice of the store the aggregator depends on.
type ReviewStore interface {
	GetReview(ctx context.Context, term string) (*models.CompositeReview, error)
	InsertReview(ctx context.Context, term, userID string, posts []models.DiscussionPost, summary models.SummaryResult, video models.VideoResult) (*models.CompositeReview, error)
}

// Aggregator orchestrates one product search: cache lookup, concurrent
// provider fan-out, summarization, and the persist-or-ephemeral decision.
type Aggregator struct {
	Discussion discussion.Searcher
	Video      video.Searcher
	LLM        provider.Provider
	Store      ReviewStore
	Hot        *cache.Composites
	Logger     *log.Logger
}

func (a *Aggregator) logf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

// Search returns the composite review for the term, either from the cache or
// freshly computed. The returned bool reports whether this call persisted
// the composite.
//
// Cache semantics are write-once-per-term with no TTL and no invalidation:
// once any composite exists for the literal term, every later search for it
// returns that frozen snapshot, regardless of caller, and the providers are
// never asked again.
//
// On a miss, the discussion and video fetches run concurrently and both must
// settle before summarization starts (the summary prompt embeds the
// discussion posts). A discussion or video transport failure fails the whole
// search; a video provider returning no hits is a normal result. The
// composite is persisted only when all three sub-results are present and a
// user id was supplied; otherwise it is returned ephemerally and a later
// identical search will compute it again.
func (a *Aggregator) Search(ctx context.Context, term, userID string) (models.CompositeReview, bool, error) {
	if strings.TrimSpace(term) == "" {
		return models.CompositeReview{}, false, ErrEmptyTerm
	}

	if hit, err := a.Hot.Get(ctx, term); err != nil {
		a.logf("hot cache read failed for %q: %v", term, err)
	} else if hit != nil {
		cacheHits.Inc()
		return *hit, false, nil
	}

	// A store read failure degrades to a miss rather than failing the
	// search; the providers can still produce an answer.
	cached, err := a.Store.GetReview(ctx, term)
	if err != nil {
		a.logf("cache lookup failed for %q, treating as miss: %v", term, err)
	}
	if cached != nil {
		cacheHits.Inc()
		if err := a.Hot.Put(ctx, term, *cached); err != nil {
			a.logf("hot cache backfill failed for %q: %v", term, err)
		}
		return *cached, false, nil
	}
	cacheMisses.Inc()

	var (
		posts []models.DiscussionPost
		vid   *models.VideoResult
	)
	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		posts, err = a.Discussion.Search(ctx, term, discussionLimit)
		if err != nil {
			providerErrors.WithLabelValues("discussion").Inc()
			errCh <- fmt.Errorf("discussion fetch: %w", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		vid, err = a.Video.Search(ctx, term)
		if err != nil {
			providerErrors.WithLabelValues("video").Inc()
			errCh <- fmt.Errorf("video fetch: %w", err)
		}
	}()
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return models.CompositeReview{}, false, err
	}

	summary, err := a.LLM.Summarize(ctx, term, posts)
	if err != nil {
		providerErrors.WithLabelValues("summary").Inc()
		return models.CompositeReview{}, false, fmt.Errorf("summarize: %w", err)
	}

	composite := models.CompositeReview{
		Product:       term,
		RedditReviews: posts,
		GeminiSummary: []models.SummaryResult{summary},
	}
	if vid != nil {
		composite.YoutubeReview = []models.VideoResult{*vid}
	}

	if len(posts) > 0 && vid != nil && userID != "" {
		inserted, err := a.Store.InsertReview(ctx, term, userID, posts, summary, *vid)
		if err != nil {
			// No rollback, no retry: the composite is still good, the
			// caller gets it ephemerally.
			a.logf("persist failed for %q: %v", term, err)
			return composite, false, nil
		}
		if inserted != nil {
			reviewsPersisted.Inc()
			if err := a.Hot.Put(ctx, term, *inserted); err != nil {
				a.logf("hot cache write failed for %q: %v", term, err)
			}
			return *inserted, true, nil
		}
		// Someone beat us to the insert; return what we computed.
	}

	return composite, false, nil
}
