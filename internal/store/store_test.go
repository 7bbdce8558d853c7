package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/novafetch/novafetch/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{DB: db}, mock
}

func TestGetReviewMiss(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE search_query=\$1 LIMIT 1`).
		WithArgs("Pixel 9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := s.GetReview(context.Background(), "Pixel 9")
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetReviewHit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE search_query=\$1 LIMIT 1`).
		WithArgs("Pixel 9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rev-1"))
	mock.ExpectQuery(`SELECT reddit_title, reddit_content, reddit_upvotes, reddit_url FROM redditreviews WHERE review_id=\$1`).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"reddit_title", "reddit_content", "reddit_upvotes", "reddit_url"}).
			AddRow("great phone", "battery lasts", 42, "https://reddit.com/r/x/1").
			AddRow("meh camera", "", 7, "https://reddit.com/r/x/2"))
	mock.ExpectQuery(`SELECT sentiment, opinion, specs FROM aireviews WHERE review_id=\$1`).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"sentiment", "opinion", "specs"}).
			AddRow("Mixed", "solid but pricey", "120Hz\nTensor G4"))
	mock.ExpectQuery(`SELECT video_title, thumbnail_url, video_id, channel_title FROM youtubereviews WHERE review_id=\$1`).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows([]string{"video_title", "thumbnail_url", "video_id", "channel_title"}).
			AddRow("Pixel 9 Review", "https://i.ytimg.com/x.jpg", "abc123", "MKBHD"))

	got, err := s.GetReview(context.Background(), "Pixel 9")
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a composite")
	}
	if got.Product != "Pixel 9" || len(got.RedditReviews) != 2 {
		t.Fatalf("unexpected composite: %+v", got)
	}
	if got.Summary() == nil || got.Summary().Sentiment != "Mixed" {
		t.Fatalf("unexpected summary: %+v", got.Summary())
	}
	if got.Video() == nil || got.Video().VideoID != "abc123" {
		t.Fatalf("unexpected video: %+v", got.Video())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetReviewUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews`).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := s.GetReview(context.Background(), "Pixel 9")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestInsertReviewExistingIsNoop(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE search_query=\$1 AND user_id=\$2 LIMIT 1`).
		WithArgs("Pixel 9", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rev-1"))

	got, err := s.InsertReview(context.Background(), "Pixel 9", "user-1",
		[]models.DiscussionPost{{Title: "t"}}, models.SummaryResult{}, models.VideoResult{})
	if err != nil {
		t.Fatalf("InsertReview: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for existing entry, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no insert statements may run on a duplicate: %v", err)
	}
}

func TestInsertReviewWritesParentAndChildren(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE search_query=\$1 AND user_id=\$2 LIMIT 1`).
		WithArgs("Pixel 9", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO reviews \(id, search_query, user_id\)`).
		WithArgs(sqlmock.AnyArg(), "Pixel 9", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO redditreviews`).
		WithArgs(sqlmock.AnyArg(), "great", "body", 10, "https://reddit.com/r/x/1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO aireviews`).
		WithArgs(sqlmock.AnyArg(), "Positive", "good", "specs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO youtubereviews`).
		WithArgs(sqlmock.AnyArg(), "vid", "thumb", "id1", "chan").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := s.InsertReview(context.Background(), "Pixel 9", "user-1",
		[]models.DiscussionPost{{Title: "great", Content: "body", Upvotes: 10, URL: "https://reddit.com/r/x/1"}},
		models.SummaryResult{Sentiment: "Positive", Opinion: "good", Specs: "specs"},
		models.VideoResult{Title: "vid", ThumbnailURL: "thumb", VideoID: "id1", ChannelTitle: "chan"})
	if err != nil {
		t.Fatalf("InsertReview: %v", err)
	}
	if got == nil || got.Product != "Pixel 9" || len(got.RedditReviews) != 1 {
		t.Fatalf("unexpected composite: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertReviewChildFailureKeepsParent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE search_query=\$1 AND user_id=\$2 LIMIT 1`).
		WithArgs("Pixel 9", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO redditreviews`).
		WillReturnError(fmt.Errorf("value too long"))
	// the remaining child writes still run; there is no rollback
	mock.ExpectExec(`INSERT INTO aireviews`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO youtubereviews`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.InsertReview(context.Background(), "Pixel 9", "user-1",
		[]models.DiscussionPost{{Title: "t"}}, models.SummaryResult{}, models.VideoResult{})
	if err == nil {
		t.Fatalf("expected error from failed child write")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecentSearchTerms(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT search_query FROM reviews WHERE user_id=\$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("user-1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"search_query"}).
			AddRow("Pixel 9").AddRow("Galaxy Watch 7"))

	terms, err := s.RecentSearchTerms(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("RecentSearchTerms: %v", err)
	}
	if len(terms) != 2 || terms[0] != "Pixel 9" || terms[1] != "Galaxy Watch 7" {
		t.Fatalf("unexpected terms: %v", terms)
	}
}
