package search

import (
	"context"
	"time"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/pkg/brand"
	"gelisim-chatbot-be/pkg/embedding"
	"gelisim-chatbot-be/pkg/vectorindex"

	"github.com/cenkalti/backoff/v5"
)

const maxAttempts = 3

// Result is one ranked context passage for the generator.
type Result struct {
	Text    string  `json:"text"`
	Brand   string  `json:"brand"`
	DocType string  `json:"doc_type"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

// Client performs semantic search: brand filter detection, query embedding,
// then a filtered nearest-neighbor lookup. The embed+query steps are retried
// on transient failure; brand detection is pure and runs once.
type Client struct {
	detector *brand.Detector
	embedder embedding.Provider
	index    vectorindex.Index
	log      logger.ILogger
}

func NewClient(detector *brand.Detector, embedder embedding.Provider, index vectorindex.Index, log logger.ILogger) *Client {
	return &Client{
		detector: detector,
		embedder: embedder,
		index:    index,
		log:      log,
	}
}

// Search returns up to topK passages restricted to the detected brand.
// After exhausting retries it surfaces a RetrievalError wrapping the last
// underlying error. Empty results from a successful query are valid and
// distinct from a failure.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	detectedBrand := c.detector.Detect(query)

	c.log.Info("search", "Searching", map[string]interface{}{
		"query": preview(query), "brand": detectedBrand, "top_k": topK,
	})

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 1 * time.Second
	policy.Multiplier = 2
	policy.RandomizationFactor = 0 // 1s, 2s, 4s

	attempt := 0
	matches, err := backoff.Retry(ctx, func() ([]vectorindex.Match, error) {
		attempt++
		found, opErr := c.searchOnce(ctx, query, topK, detectedBrand)
		if opErr != nil {
			c.log.Warn("search", "Search attempt failed", map[string]interface{}{
				"attempt": attempt, "max_attempts": maxAttempts, "error": opErr.Error(),
			})
			return nil, opErr
		}
		return found, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(maxAttempts))

	if err != nil {
		c.log.Error("search", "Search failed after all attempts", map[string]interface{}{
			"attempts": attempt, "error": err.Error(),
		})
		return nil, apperrors.NewRetrievalError(err)
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Text:    m.Text,
			Brand:   m.Brand,
			DocType: m.DocType,
			URL:     m.URL,
			Score:   m.Score,
		}
	}

	c.log.Info("search", "Search returned results", map[string]interface{}{"count": len(results)})
	return results, nil
}

func (c *Client) searchOnce(ctx context.Context, query string, topK int, brandLabel string) ([]vectorindex.Match, error) {
	vector, err := c.embedder.Embed(ctx, query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, err
	}

	return c.index.Query(ctx, vector, topK, vectorindex.Filter{Brand: brandLabel})
}

func preview(query string) string {
	runes := []rune(query)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return query
}
