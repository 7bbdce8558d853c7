package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/novafetch/novafetch/models"
)

// ErrStoreUnavailable wraps read failures so callers can degrade a cache
// lookup failure into a miss instead of failing the whole search.
var ErrStoreUnavailable = errors.New("store unavailable")

type Store struct {
	DB *sql.DB
}

// New constructs the Store from environment variables.
func New(ctx context.Context) (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getenvDefault("POSTGRES_HOST", "localhost")
		port := getenvDefault("POSTGRES_PORT", "5432")
		user := os.Getenv("POSTGRES_USER")
		pass := os.Getenv("POSTGRES_PASSWORD")
		db := os.Getenv("POSTGRES_DB")
		ssl := getenvDefault("POSTGRES_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
	}
	return NewWithDSN(ctx, dsn)
}

// NewWithDSN constructs the Store using an explicit Postgres DSN
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// GetReview looks up a persisted composite review by its literal search
// term. The term is the cache key: no normalization, exact match, first row
// if duplicates exist. A miss is (nil, nil).
func (s *Store) GetReview(ctx context.Context, term string) (*models.CompositeReview, error) {
	var id string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE search_query=$1 LIMIT 1`, term).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.loadComposite(ctx, id, term)
}

// GetReviewByUser is GetReview scoped to the user that originated the entry.
func (s *Store) GetReviewByUser(ctx context.Context, term, userID string) (*models.CompositeReview, error) {
	var id string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE search_query=$1 AND user_id=$2 LIMIT 1`, term, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.loadComposite(ctx, id, term)
}

func (s *Store) loadComposite(ctx context.Context, id, term string) (*models.CompositeReview, error) {
	out := &models.CompositeReview{Product: term}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT reddit_title, reddit_content, reddit_upvotes, reddit_url FROM redditreviews WHERE review_id=$1`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.DiscussionPost
		if err := rows.Scan(&p.Title, &p.Content, &p.Upvotes, &p.URL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		out.RedditReviews = append(out.RedditReviews, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var sum models.SummaryResult
	err = s.DB.QueryRowContext(ctx,
		`SELECT sentiment, opinion, specs FROM aireviews WHERE review_id=$1`, id).
		Scan(&sum.Sentiment, &sum.Opinion, &sum.Specs)
	if err == nil {
		out.GeminiSummary = append(out.GeminiSummary, sum)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var vid models.VideoResult
	err = s.DB.QueryRowContext(ctx,
		`SELECT video_title, thumbnail_url, video_id, channel_title FROM youtubereviews WHERE review_id=$1`, id).
		Scan(&vid.Title, &vid.ThumbnailURL, &vid.VideoID, &vid.ChannelTitle)
	if err == nil {
		out.YoutubeReview = append(out.YoutubeReview, vid)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return out, nil
}

// InsertReview persists a freshly computed composite: one parent row plus
// three child row sets, written as separate statements. The pre-check makes
// the write idempotent by convention only; there is no uniqueness constraint
// backing it, so concurrent first-time searches can still produce duplicate
// rows. A child-write failure after the parent insert leaves the partial
// rows in place and is reported to the caller.
//
// When an entry already exists for the term (and user, if given) the call is
// a no-op returning (nil, nil).
func (s *Store) InsertReview(ctx context.Context, term, userID string, posts []models.DiscussionPost, summary models.SummaryResult, video models.VideoResult) (*models.CompositeReview, error) {
	var existing string
	var err error
	if userID != "" {
		err = s.DB.QueryRowContext(ctx,
			`SELECT id FROM reviews WHERE search_query=$1 AND user_id=$2 LIMIT 1`, term, userID).Scan(&existing)
	} else {
		err = s.DB.QueryRowContext(ctx,
			`SELECT id FROM reviews WHERE search_query=$1 LIMIT 1`, term).Scan(&existing)
	}
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO reviews (id, search_query, user_id) VALUES ($1,$2,$3)`,
		id, term, nullableString(userID)); err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}

	// Child writes are not transactional with the parent. Run all three and
	// report the combined outcome; the parent row stays either way.
	var writeErrs []error
	for _, p := range posts {
		if _, err := s.DB.ExecContext(ctx,
			`INSERT INTO redditreviews (review_id, reddit_title, reddit_content, reddit_upvotes, reddit_url) VALUES ($1,$2,$3,$4,$5)`,
			id, p.Title, p.Content, p.Upvotes, p.URL); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("discussion posts: %w", err))
			break
		}
	}
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO aireviews (review_id, sentiment, opinion, specs) VALUES ($1,$2,$3,$4)`,
		id, summary.Sentiment, summary.Opinion, summary.Specs); err != nil {
		writeErrs = append(writeErrs, fmt.Errorf("summary: %w", err))
	}
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO youtubereviews (review_id, video_title, thumbnail_url, video_id, channel_title) VALUES ($1,$2,$3,$4,$5)`,
		id, video.Title, video.ThumbnailURL, video.VideoID, video.ChannelTitle); err != nil {
		writeErrs = append(writeErrs, fmt.Errorf("video: %w", err))
	}
	if len(writeErrs) > 0 {
		return nil, fmt.Errorf("failed to insert review children: %w", errors.Join(writeErrs...))
	}

	return &models.CompositeReview{
		Product:       term,
		RedditReviews: posts,
		GeminiSummary: []models.SummaryResult{summary},
		YoutubeReview: []models.VideoResult{video},
	}, nil
}

// RecentSearchTerms returns the user's most recent search terms, newest
// first, capped at limit.
func (s *Store) RecentSearchTerms(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT search_query FROM reviews WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return terms, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
