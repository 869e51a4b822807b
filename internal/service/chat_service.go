package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gelisim-chatbot-be/internal/constant"
	"gelisim-chatbot-be/internal/dto"
	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/pkg/cache"
	"gelisim-chatbot-be/pkg/llm"
	"gelisim-chatbot-be/pkg/search"
)

// IChatService orchestrates the cache → search → generate pipeline. It
// contains zero security logic; admission and input checks run in the
// controller before a query reaches this service.
type IChatService interface {
	GetResponse(ctx context.Context, query string) (*dto.ChatResponse, error)

	// StreamResponse drives the streaming pipeline, calling emit for each
	// fragment as it is produced. When emit returns an error (client gone),
	// the stream is abandoned and its partial output discarded. The cache
	// is written only after the stream completes cleanly.
	StreamResponse(ctx context.Context, query string, emit func(fragment string) error) error
}

// Searcher is what the orchestrator needs from the retrieval client.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]search.Result, error)
}

type chatService struct {
	searchClient Searcher
	llmProvider  llm.Provider
	cache        *cache.ResponseCache
	log          logger.ILogger
}

func NewChatService(
	searchClient Searcher,
	llmProvider llm.Provider,
	responseCache *cache.ResponseCache,
	log logger.ILogger,
) IChatService {
	return &chatService{
		searchClient: searchClient,
		llmProvider:  llmProvider,
		cache:        responseCache,
		log:          log,
	}
}

func (s *chatService) GetResponse(ctx context.Context, query string) (*dto.ChatResponse, error) {
	if cached := s.cache.Get(ctx, query); cached != nil {
		s.log.Info("chat", "Cache HIT", map[string]interface{}{"query": preview(query)})
		return &dto.ChatResponse{
			Response: cached.Response,
			Sources:  ensureSources(cached.Sources),
			Cached:   true,
		}, nil
	}

	s.log.Info("chat", "Cache MISS", map[string]interface{}{"query": preview(query)})

	results, err := s.searchClient.Search(ctx, query, constant.SearchTopK)
	if err != nil {
		return nil, err
	}

	contextBlock := formatContext(results)
	sources := extractSources(results)

	answer, err := s.llmProvider.Chat(ctx, buildHistory(query, contextBlock),
		llm.WithMaxTokens(constant.GenerationMaxTokens),
		llm.WithTemperature(constant.GenerationTemperature),
	)
	if err != nil {
		return nil, apperrors.NewGenerationError(err)
	}

	s.cache.Set(ctx, query, &cache.CachedResponse{Response: answer, Sources: sources})

	return &dto.ChatResponse{
		Response: answer,
		Sources:  ensureSources(sources),
		Cached:   false,
	}, nil
}

func (s *chatService) StreamResponse(ctx context.Context, query string, emit func(fragment string) error) error {
	if cached := s.cache.Get(ctx, query); cached != nil {
		s.log.Info("chat", "Stream Cache HIT", map[string]interface{}{"query": preview(query)})
		// Simulated streaming: re-emit the cached answer word by word so
		// client-side consumption stays uniform across hit and miss.
		for _, word := range strings.Split(cached.Response, " ") {
			if err := emit(word + " "); err != nil {
				return err
			}
		}
		return nil
	}

	s.log.Info("chat", "Stream Cache MISS", map[string]interface{}{"query": preview(query)})

	results, err := s.searchClient.Search(ctx, query, constant.SearchTopK)
	if err != nil {
		return err
	}

	contextBlock := formatContext(results)
	sources := extractSources(results)

	stream, err := s.llmProvider.ChatStream(ctx, buildHistory(query, contextBlock),
		llm.WithMaxTokens(constant.GenerationMaxTokens),
		llm.WithTemperature(constant.GenerationTemperature),
	)
	if err != nil {
		return apperrors.NewGenerationError(err)
	}
	defer stream.Close()

	var buffer strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Partial output failure: nothing gets cached.
			return apperrors.NewGenerationError(err)
		}

		buffer.WriteString(fragment)
		if err := emit(fragment); err != nil {
			// Client disconnected; discard the partial buffer.
			s.log.Warn("chat", "Stream abandoned by client", map[string]interface{}{
				"query": preview(query),
			})
			return err
		}
	}

	s.cache.Set(ctx, query, &cache.CachedResponse{
		Response: buffer.String(),
		Sources:  sources,
	})
	s.log.Info("chat", "Stream response cached", map[string]interface{}{"query": preview(query)})

	return nil
}

func buildHistory(query, contextBlock string) []llm.Message {
	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.SystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(constant.UserTurnTemplate, query, contextBlock)},
	}
}

// formatContext renders search results into the delimited context block for
// the generator.
func formatContext(results []search.Result) string {
	if len(results) == 0 {
		return constant.EmptyContextMessage
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		part := fmt.Sprintf("[Kaynak %d] (Skor: %.2f)\nMarka: %s\nİçerik: %s",
			i+1, result.Score, result.Brand, result.Text)
		if result.URL != "" {
			part += "\nURL: " + result.URL
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// extractSources returns unique non-empty URLs in first-seen order.
func extractSources(results []search.Result) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.URL == "" || seen[result.URL] {
			continue
		}
		seen[result.URL] = true
		urls = append(urls, result.URL)
	}
	return urls
}

// ensureSources keeps the JSON field an array, never null.
func ensureSources(sources []string) []string {
	if sources == nil {
		return []string{}
	}
	return sources
}

func preview(query string) string {
	runes := []rune(query)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return query
}
