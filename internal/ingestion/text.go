package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace  = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletGlyph = regexp.MustCompile(`^[•·▪●◦‣∙]\s*`)
)

// CleanText normalizes extracted document text while preserving its line
// structure: CRLF becomes LF, runs of spaces collapse, bullet glyphs become
// "- ", and runs of blank lines collapse to a single blank line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\f", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line, normalizes its bullet marker and collapses inner
// whitespace. Leading indentation of nested bullets is kept.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	indent := 0
	if isBulletLine(trimmed) {
		indent = len(line) - len(strings.TrimLeft(line, " \t"))
	}

	trimmed = bulletGlyph.ReplaceAllString(trimmed, "- ")
	trimmed = multiSpace.ReplaceAllString(trimmed, " ")
	return strings.Repeat(" ", indent) + trimmed
}

// isBulletLine checks if a trimmed line starts with a list marker
func isBulletLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		bulletGlyph.MatchString(trimmed)
}
