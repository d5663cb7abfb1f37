// Package llm provides LLM client abstractions over the Gemini and OpenAI chat APIs,
// with model tiers and JSON-schema constrained output.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short rewording
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: parsing, scoring, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: resume rewriting, cover letters
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI chat completions provider
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the OpenAI endpoint (Azure, local gateways). Ignored for Gemini.
	BaseURL string
	// Temperature is used when a request does not set its own
	Temperature float32
}

// DefaultConfig returns the default configuration for a provider.
// Unknown providers get the Gemini defaults.
func DefaultConfig(provider Provider) *Config {
	if provider == ProviderOpenAI {
		return DefaultOpenAIConfig()
	}
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.2,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
		Temperature: 0.2,
	}
}

// ParseProvider converts a config string to a Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGemini, ProviderOpenAI:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown llm provider: %q", s)
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
