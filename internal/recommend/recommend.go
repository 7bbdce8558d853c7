package recommend

import (
	"context"
	"fmt"

	"github.com/novafetch/novafetch/models"
	"github.com/novafetch/novafetch/provider"
)

// historyLimit caps how many recent search terms feed the prompt.
const historyLimit = 10

// RecentSearcher is the slice of the store the engine depends on.
type RecentSearcher interface {
	RecentSearchTerms(ctx context.Context, userID string, limit int) ([]string, error)
}

// Engine produces personalized product recommendations from a user's recent
// search history. A user with no history gets generic recommendations.
type Engine struct {
	Store RecentSearcher
	LLM   provider.Provider
}

// Recommend returns the model's product recommendations for the user.
// Unlike summarization there is no degraded fallback: a store failure or
// malformed model output surfaces as an error.
func (e *Engine) Recommend(ctx context.Context, userID string) ([]models.Recommendation, error) {
	terms, err := e.Store.RecentSearchTerms(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user queries: %w", err)
	}
	return e.LLM.Recommend(ctx, terms)
}
