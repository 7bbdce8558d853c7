package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novafetch/novafetch/internal/aggregator"
	"github.com/novafetch/novafetch/models"
)

// Searcher runs one review search end to end.
type Searcher interface {
	Search(ctx context.Context, term, userID string) (models.CompositeReview, bool, error)
}

// Recommender produces product recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID string) ([]models.Recommendation, error)
}

type ReviewsHandler struct {
	Agg    Searcher
	Rec    Recommender
	Logger *log.Logger
}

func (h *ReviewsHandler) Register(e *echo.Echo) {
	e.GET("/search", h.search)
	e.GET("/recommend", h.recommend)
}

// search aggregates a review for the query: cached when available, freshly
// computed otherwise. 201 signals that this request persisted the result.
func (h *ReviewsHandler) search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query")
	}
	userID := requestUserID(c)

	review, persisted, err := h.Agg.Search(c.Request().Context(), query, userID)
	if errors.Is(err, aggregator.ErrEmptyTerm) {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query")
	}
	if err != nil {
		h.logf("search %q failed: %v", query, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	status := http.StatusOK
	if persisted {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]interface{}{"review": review})
}

func (h *ReviewsHandler) recommend(c echo.Context) error {
	userID := requestUserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user_id")
	}

	recs, err := h.Rec.Recommend(c.Request().Context(), userID)
	if err != nil {
		h.logf("recommend for %q failed: %v", userID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate recommendations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recommendations": recs})
}

func (h *ReviewsHandler) logf(format string, args ...interface{}) {
	if h.Logger != nil {
		h.Logger.Printf(format, args...)
	}
}
