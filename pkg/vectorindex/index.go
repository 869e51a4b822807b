package vectorindex

import "context"

// Match is one ranked result from the index. Missing metadata is coerced to
// safe defaults by implementations, never surfaced as an error.
type Match struct {
	Text    string
	Brand   string
	DocType string
	URL     string
	Score   float64 // Cosine similarity, 0.0-1.0
}

// Filter restricts a query to matching metadata. An empty brand means no
// brand restriction.
type Filter struct {
	Brand string
}

// Index is the nearest-neighbor search collaborator.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)
}
