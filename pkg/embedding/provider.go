package embedding

import "context"

// Task types hint the provider at the embedding's purpose. Gemini uses them
// for asymmetric retrieval models; Ollama ignores them.
const (
	TaskTypeQuery    = "RETRIEVAL_QUERY"
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
)

// Provider generates a vector embedding for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
