package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoContent is returned when the provider answers without any text
var ErrNoContent = errors.New("no response from AI")

// Role tags a chat message
type Role string

// Message roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message
type Message struct {
	Role    Role
	Content string
}

// ResponseSchema constrains the response to JSON matching Document
type ResponseSchema struct {
	Name     string
	Document []byte
}

// Request is a single completion request
type Request struct {
	// Operation names the calling operation for logs, metrics and spans (e.g. "parse_resume")
	Operation string
	Tier      ModelTier
	Messages  []Message
	// Schema is nil for free-text responses
	Schema *ResponseSchema
	// Temperature overrides the configured default when non-zero
	Temperature float32
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends the messages and returns the raw content of the first choice
	Complete(ctx context.Context, req *Request) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultGeminiConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", config.Provider)
	}
}

// splitSystem separates system messages (joined) from the conversation turns
func splitSystem(messages []Message) (string, []Message) {
	var system string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
