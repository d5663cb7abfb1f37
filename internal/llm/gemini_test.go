package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

func TestToGenaiSchema(t *testing.T) {
	doc := []byte(`{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"score": {"type": "integer", "minimum": 0},
			"risk": {"type": "string", "enum": ["low", "high"]},
			"tags": {"type": "array", "items": {"type": "string"}},
			"note": {"type": ["string", "null"]}
		},
		"required": ["score", "risk", "tags", "note"]
	}`)

	s, err := toGenaiSchema(doc)
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"score", "risk", "tags", "note"}, s.Required)
	assert.Equal(t, genai.TypeInteger, s.Properties["score"].Type)
	assert.Equal(t, []string{"low", "high"}, s.Properties["risk"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
	assert.True(t, s.Properties["note"].Nullable)
}

func TestToGenaiSchema_Invalid(t *testing.T) {
	_, err := toGenaiSchema([]byte(`{"type": "array"}`))
	assert.ErrorContains(t, err, "without items")

	_, err = toGenaiSchema([]byte(`{"properties": {}}`))
	assert.ErrorContains(t, err, "no type")

	_, err = toGenaiSchema([]byte(`not json`))
	assert.Error(t, err)
}

func TestToGenaiSchema_EmbeddedSchemas(t *testing.T) {
	for _, name := range schemas.Names() {
		t.Run(name, func(t *testing.T) {
			doc, err := schemas.Get(name)
			require.NoError(t, err)
			_, err = toGenaiSchema(doc)
			assert.NoError(t, err)
		})
	}
}
