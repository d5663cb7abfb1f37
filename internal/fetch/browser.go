package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch
// successful. Shorter pages are retried in a headless browser.
const MinContentLength = 500

// BrowserOptions configures headless rendering
type BrowserOptions struct {
	Timeout time.Duration
	// RemoteURL connects to an existing Chrome DevTools endpoint instead of launching one
	RemoteURL string
	// Settle is how long to wait for client-side rendering after the body is ready
	Settle time.Duration
}

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// NewAllocator returns a chromedp allocator context: a remote one when
// remoteURL is set, otherwise a local headless Chrome.
func NewAllocator(ctx context.Context, remoteURL string) (context.Context, context.CancelFunc) {
	if remoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, remoteURL)
	}
	return chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
}

// Render loads a page in headless Chrome and returns the rendered HTML.
func Render(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = 3 * time.Second
	}

	allocCtx, cancelAlloc := NewAllocator(ctx, opts.RemoteURL)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		// Dismiss cookie banners when present; missing buttons are fine
		chromedp.ActionFunc(func(ctx context.Context) error {
			clickCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(clickCtx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	return html, nil
}
