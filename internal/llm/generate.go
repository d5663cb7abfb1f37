package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

// GenerateText sends a system + user prompt and returns the trimmed free-text answer
func GenerateText(ctx context.Context, c Client, op string, tier ModelTier, system, user string) (string, error) {
	text, err := c.Complete(ctx, &Request{
		Operation: op,
		Tier:      tier,
		Messages:  buildMessages(system, user),
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// GenerateStructured sends a schema-constrained request, validates the JSON
// against the named schema and unmarshals it into out.
func GenerateStructured(ctx context.Context, c Client, op string, tier ModelTier, system, user, schemaName string, out any) error {
	doc, err := schemas.Get(schemaName)
	if err != nil {
		return err
	}

	text, err := c.Complete(ctx, &Request{
		Operation: op,
		Tier:      tier,
		Messages:  buildMessages(system, user),
		Schema:    &ResponseSchema{Name: schemaName, Document: doc},
	})
	if err != nil {
		return err
	}

	text = CleanJSONBlock(text)
	if text == "" {
		return ErrNoContent
	}

	if err := schemas.ValidateJSONString(doc, text); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", schemaName, err)
	}
	return nil
}

func buildMessages(system, user string) []Message {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	return append(messages, Message{Role: RoleUser, Content: user})
}
