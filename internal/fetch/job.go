package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Posting is the text of a job posting fetched from a URL
type Posting struct {
	URL      string
	Platform Platform
	Text     string
	// Rendered is true when the text came from the headless browser
	Rendered bool
}

// JobPosting fetches a job posting and extracts its main text using
// board-specific selectors. When the static HTML yields too little text and
// the browser fallback is enabled, the page is rendered in headless Chrome.
// A failed browser render keeps the static text.
func JobPosting(ctx context.Context, urlStr string, opts *Options) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.logger().With(zap.String("url", urlStr))

	platform := DetectPlatform(urlStr)
	sel := Selectors{Content: ContentSelectors(platform), Noise: NoiseSelectors(platform)}

	page, err := Get(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(page.HTML, sel)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	logger.Debug("extracted job posting", zap.String("platform", string(platform)), zap.Int("chars", len(text)))

	posting := &Posting{URL: urlStr, Platform: platform, Text: text}

	if opts.UseBrowser && ShouldUseBrowser(text) {
		logger.Info("posting text too short, rendering in browser", zap.Int("chars", len(text)))
		html, renderErr := Render(ctx, urlStr, opts.Browser)
		if renderErr != nil {
			logger.Warn("browser rendering failed, keeping static text", zap.Error(renderErr))
		} else if rendered, extractErr := ExtractText(html, sel); extractErr == nil && len(rendered) > len(text) {
			posting.Text = rendered
			posting.Rendered = true
		}
	}

	if posting.Text == "" {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("no job description text found on %s page", platform)}
	}
	return posting, nil
}
