package provider

import (
	"context"
	"errors"
	"time"

	"github.com/novafetch/novafetch/models"
	gemini_provider "github.com/novafetch/novafetch/provider/gemini"
)

// Client represents different generative-language providers
type Client string

const (
	Gemini    Client = "gemini"
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the interface all generative-language implementations satisfy.
type Provider interface {
	// Generate sends a raw prompt and returns the model's text verbatim.
	Generate(ctx context.Context, prompt string) (string, error)
	// Summarize condenses discussion posts about a product into a structured
	// summary. It never fails on malformed model output; it degrades instead.
	Summarize(ctx context.Context, product string, posts []models.DiscussionPost) (models.SummaryResult, error)
	// Recommend proposes products based on a user's recent search terms.
	// An empty terms slice yields generic recommendations.
	Recommend(ctx context.Context, terms []string) ([]models.Recommendation, error)
}

// NewProvider creates a generative-language client for the given provider.
func NewProvider(client Client, apiKey, model string, timeout time.Duration) (Provider, error) {
	switch client {
	case Gemini:
		if apiKey == "" {
			return nil, errors.New("gemini api key not set")
		}
		return gemini_provider.NewGeminiClient(apiKey, model, timeout), nil
	case OpenAI:
		return nil, errors.New("openai client not implemented yet")
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported provider")
	}
}
