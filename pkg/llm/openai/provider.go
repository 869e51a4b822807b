package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gelisim-chatbot-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

// Provider implements llm.Provider for OpenAI and any OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	model  string
}

var _ llm.Provider = &Provider{}

// New creates a provider. baseURL is optional and overrides the default
// endpoint for OpenAI-compatible backends.
func New(apiKey, model, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (p *Provider) buildRequest(history []llm.Message, opts []llm.Option) openai.ChatCompletionRequest {
	options := llm.BuildOptions(opts)

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   options.MaxTokens,
		Temperature: float32(options.Temperature),
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(history, opts))
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	req := p.buildRequest(history, opts)
	req.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai stream failed: %w", err)
	}

	return &openaiStream{inner: stream}, nil
}

type openaiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (string, error) {
	for {
		chunk, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("openai stream recv: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}
