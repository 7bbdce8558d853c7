package models

// DiscussionPost is a single community post fetched for a product search.
// Field names on the wire follow the persisted column names.
type DiscussionPost struct {
	Title   string `json:"reddit_title"`
	Content string `json:"reddit_content"`
	Upvotes int    `json:"reddit_upvotes"`
	URL     string `json:"reddit_url"`
}

// VideoResult is the top video hit for a product search, if any.
type VideoResult struct {
	Title        string `json:"video_title"`
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	ChannelTitle string `json:"channel_title"`
}

// Sentiment values produced by the summary model. The model is instructed to
// pick one of the first four; SentimentUnknown marks the degraded fallback.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
	SentimentMixed    = "Mixed"
	SentimentUnknown  = "unknown"
)

// SummaryResult is the structured summary extracted from the model response.
type SummaryResult struct {
	Sentiment string `json:"sentiment"`
	Opinion   string `json:"opinion"`
	Specs     string `json:"specs"`
}

// CompositeReview is the merged result for one search term: discussion posts,
// at most one video and at most one summary. The video and summary slots are
// zero-or-one element slices to match both the HTTP contract and the child
// row sets in the store.
type CompositeReview struct {
	Product       string           `json:"product"`
	RedditReviews []DiscussionPost `json:"redditReviews"`
	YoutubeReview []VideoResult    `json:"youtubeReview"`
	GeminiSummary []SummaryResult  `json:"geminiSummary"`
}

// Video returns the composite's video result, or nil when none was found.
func (c CompositeReview) Video() *VideoResult {
	if len(c.YoutubeReview) == 0 {
		return nil
	}
	return &c.YoutubeReview[0]
}

// Summary returns the composite's summary, or nil.
func (c CompositeReview) Summary() *SummaryResult {
	if len(c.GeminiSummary) == 0 {
		return nil
	}
	return &c.GeminiSummary[0]
}

// Recommendation is one entry of a personalized product recommendation set.
type Recommendation struct {
	Product string `json:"product"`
	Specs   string `json:"specs"`
	Reason  string `json:"reason"`
}
