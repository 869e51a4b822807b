package factory

import (
	"fmt"

	"gelisim-chatbot-be/pkg/llm"
	"gelisim-chatbot-be/pkg/llm/ollama"
	"gelisim-chatbot-be/pkg/llm/openai"
)

// NewProvider selects the LLM backend from config.
func NewProvider(providerType, modelName, ollamaBaseURL, openaiAPIKey, openaiBaseURL string) (llm.Provider, error) {
	switch providerType {
	case "openai":
		return openai.New(openaiAPIKey, modelName, openaiBaseURL)
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
