package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI-compatible chat completions
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Complete runs a chat completion against the tier's model. A schema is sent
// as a strict json_schema response format.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
		Temperature: temperature(req, c.config),
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Content,
		})
	}

	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(req.Schema.Document),
				Strict: true,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client holds no resources
func (c *OpenAIClient) Close() error {
	return nil
}

func openAIRole(r Role) string {
	switch r {
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func temperature(req *Request, cfg *Config) float32 {
	if req.Temperature != 0 {
		return req.Temperature
	}
	return cfg.Temperature
}
