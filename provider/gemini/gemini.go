package gemini_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/novafetch/novafetch/internal/helpers"
	"github.com/novafetch/novafetch/models"
)

const geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta"

// client implements the provider interface using the Gemini API
type client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// request represents a generateContent request to the Gemini API
type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// response represents a generateContent response from the Gemini API
type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(apiKey, model string, timeout time.Duration) *client {
	return &client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiAPIURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate sends a single prompt and returns the model's raw text response.
func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.sendRequest(ctx, prompt)
}

// Summarize asks the model for a structured verdict on the product based on
// the given discussion posts. Malformed model output never fails the call:
// the raw text is handed back as a degraded summary instead.
func (c *client) Summarize(ctx context.Context, product string, posts []models.DiscussionPost) (models.SummaryResult, error) {
	var sb strings.Builder
	for i, p := range posts {
		fmt.Fprintf(&sb, "Post %d:\nTitle: %s\nText: %s\n\n", i+1, p.Title, p.Content)
	}

	prompt := fmt.Sprintf(`You are a tech reviewer AI.

A user searched for: "%s"

Here are some Reddit posts:
%s
Your task:
Return a response in **valid JSON** format ONLY (no explanation, no markdown). Include the following keys:

- "sentiment": overall sentiment (Positive, Negative, Neutral, or Mixed)
- "opinion": a short summary of main features and opinions about the product (based only on the provided posts)
- "specs": key technical features or improvements of the product (based only on the provided posts)

Return only raw JSON without any extra text, markdown, or commentary.`, product, sb.String())

	text, err := c.sendRequest(ctx, prompt)
	if err != nil {
		return models.SummaryResult{}, err
	}
	return ParseSummary(text), nil
}

// ParseSummary applies the two-stage parse to a raw model response: greedy
// brace-span extraction, then a strict decode. Both failure modes yield the
// degraded fallback carrying the raw text, never an error.
func ParseSummary(text string) models.SummaryResult {
	fallback := models.SummaryResult{
		Sentiment: models.SentimentUnknown,
		Opinion:   text,
		Specs:     "N/A",
	}
	span, ok := helpers.ExtractJSONObject(text)
	if !ok {
		return fallback
	}
	var out models.SummaryResult
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return fallback
	}
	return out
}

// Recommend asks the model for three product recommendations. With no search
// history it falls back to a generic prompt. Unlike Summarize, malformed
// model output here is an error for the caller to surface.
func (c *client) Recommend(ctx context.Context, terms []string) ([]models.Recommendation, error) {
	var prompt string
	if len(terms) == 0 {
		prompt = `You are a tech product recommendation engine.

Recommend 3 popular tech products for a new user. Respond in **valid JSON** only in this format:

{
  "recommendations": [
    {
      "product": "Product Name",
      "specs": "Key specs",
      "reason": "Why it's recommended"
    }
  ]
}

Do not include any explanation or markdown, only valid JSON.`
	} else {
		var sb strings.Builder
		for i, t := range terms {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
		}
		prompt = fmt.Sprintf(`You are a tech product recommendation engine.

A user has searched for the following tech products:
%s
Based on their interests, recommend 3 tech products. Respond in **valid JSON** only in this format:

{
  "recommendations": [
    {
      "product": "Product Name",
      "specs": "Key specs",
      "reason": "Why it's recommended"
    }
  ]
}

Do not include any explanation or markdown, only valid JSON.`, sb.String())
	}

	text, err := c.sendRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	span, ok := helpers.ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	var out struct {
		Recommendations []models.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}
	return out.Recommendations, nil
}

// sendRequest sends a generateContent request to the Gemini API
func (c *client) sendRequest(ctx context.Context, prompt string) (string, error) {
	requestBody := request{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var geminiResp response
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
