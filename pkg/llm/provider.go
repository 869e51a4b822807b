package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Stream is a finite, non-restartable, single-pass sequence of text
// fragments. Recv returns io.EOF on clean end-of-stream; any other error
// means the stream failed, possibly after fragments were already produced.
// Callers must Close the stream on every path to release the underlying
// connection.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the complete response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and returns fragments incrementally.
	// Concatenating all fragments yields the same usable text as Chat for
	// the same inputs.
	ChatStream(ctx context.Context, history []Message, options ...Option) (Stream, error)
}

// BuildOptions folds functional options over provider defaults.
func BuildOptions(opts []Option) *Options {
	options := &Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
