package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete runs a chat turn against the tier's model
func (c *GeminiClient) Complete(ctx context.Context, req *Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	system, turns := splitSystem(req.Messages)
	if len(turns) == 0 {
		return "", fmt.Errorf("request has no user message")
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperature(req, c.config))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	if req.Schema != nil {
		schema, err := toGenaiSchema(req.Schema.Document)
		if err != nil {
			return "", fmt.Errorf("failed to convert schema %s: %w", req.Schema.Name, err)
		}
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	session := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// extractTextFromResponse joins the text parts of the first candidate.
// An empty result is reported by the caller as ErrNoContent.
func extractTextFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, "")
}

// jsonSchemaNode is the subset of JSON Schema that Gemini's response schema understands
type jsonSchemaNode struct {
	Type        any                        `json:"type"`
	Description string                     `json:"description"`
	Enum        []string                   `json:"enum"`
	Items       *jsonSchemaNode            `json:"items"`
	Properties  map[string]*jsonSchemaNode `json:"properties"`
	Required    []string                   `json:"required"`
}

// toGenaiSchema converts a JSON Schema document into a genai.Schema.
// Keywords Gemini does not support (additionalProperties, minimum, ...) are dropped.
func toGenaiSchema(doc []byte) (*genai.Schema, error) {
	var root jsonSchemaNode
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return convertNode(&root)
}

func convertNode(n *jsonSchemaNode) (*genai.Schema, error) {
	typeName, nullable, err := schemaType(n.Type)
	if err != nil {
		return nil, err
	}

	s := &genai.Schema{
		Description: n.Description,
		Nullable:    nullable,
		Enum:        n.Enum,
		Required:    n.Required,
	}

	switch typeName {
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
		if n.Items == nil {
			return nil, fmt.Errorf("array schema without items")
		}
		items, err := convertNode(n.Items)
		if err != nil {
			return nil, err
		}
		s.Items = items
	case "object":
		s.Type = genai.TypeObject
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, prop := range n.Properties {
			converted, err := convertNode(prop)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			s.Properties[name] = converted
		}
	default:
		return nil, fmt.Errorf("unsupported schema type: %q", typeName)
	}

	return s, nil
}

// schemaType reads "type": "x" or "type": ["x", "null"]
func schemaType(v any) (string, bool, error) {
	switch t := v.(type) {
	case string:
		return t, false, nil
	case []any:
		var name string
		nullable := false
		for _, item := range t {
			s, _ := item.(string)
			if s == "null" {
				nullable = true
				continue
			}
			name = s
		}
		return name, nullable, nil
	}
	return "", false, fmt.Errorf("schema node has no type")
}
