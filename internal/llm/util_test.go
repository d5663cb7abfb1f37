package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json code block", input: "```json\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "generic code block", input: "```\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "code block with language", input: "```javascript\n{\"key\": \"value\"}\n```", expected: `{"key": "value"}`},
		{name: "plain JSON", input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "surrounding whitespace", input: "\n  {\"a\": 1}  \n", expected: `{"a": 1}`},
		{name: "empty", input: "   ", expected: ""},
		{
			name:     "preamble",
			input:    "Here is the result: {\"values\": [\"innovation\"]}",
			expected: `{"values": ["innovation"]}`,
		},
		{
			name:     "preamble before array",
			input:    "Here are the items:\n[\"item1\", \"item2\"]",
			expected: `["item1", "item2"]`,
		},
		{
			name:     "trailing text",
			input:    "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			expected: `{"key": "value"}`,
		},
		{
			name:     "escaped quotes and braces in strings",
			input:    `Result: {"message": "He said \"hi {there}\""}`,
			expected: `{"message": "He said \"hi {there}\""}`,
		},
		{
			name:     "unbalanced stays as-is",
			input:    `{"key": "value"`,
			expected: `{"key": "value"`,
		},
		{name: "plain prose", input: "no json here", expected: "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
