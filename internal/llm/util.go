package llm

import "strings"

// CleanJSONBlock strips markdown code fences and any prose around the JSON
// payload. Models wrap JSON in ```json blocks or add a preamble even when
// told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if text == "" || text[0] == '{' || text[0] == '[' {
		if obj := extractJSONValue(text); obj != "" {
			return obj
		}
		return text
	}

	// Preamble before the JSON
	if idx := strings.IndexAny(text, "{["); idx >= 0 {
		if obj := extractJSONValue(text[idx:]); obj != "" {
			return obj
		}
	}
	return text
}

// extractJSONValue returns the balanced object or array at the start of s,
// honoring string literals and escapes. It returns "" when s is unbalanced.
func extractJSONValue(s string) string {
	if s == "" {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
