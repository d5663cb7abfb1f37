package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTag = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|strong|section)[\s>/]`)

// blockElements end a line when converting HTML to text
const blockElements = "p, div, li, br, h1, h2, h3, h4, h5, h6, tr, section, article, header, ul, ol"

// LooksLikeHTML reports whether pasted text is HTML markup rather than plain text
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// HTMLToText reduces an HTML fragment or page to plain text, one block per
// line with no blank lines, and list items prefixed by "- ".
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(CleanText(doc.Text()), "\n")
	kept := lines[:0]
	for _, line := range lines {
		// source indentation is not meaningful in HTML
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// NormalizeJobDescription returns pasted job text as plain text, converting HTML when detected
func NormalizeJobDescription(s string) (string, error) {
	if LooksLikeHTML(s) {
		return HTMLToText(s)
	}
	return CleanText(s), nil
}
