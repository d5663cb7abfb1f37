package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

// Converter turns an HTML document into PDF bytes
type Converter interface {
	ConvertHTMLToPDF(ctx context.Context, html string, opts ...Option) ([]byte, error)
}

// PDFOptions controls page geometry. Sizes are in inches.
type PDFOptions struct {
	PaperWidthInch   float64
	PaperHeightInch  float64
	MarginTopInch    float64
	MarginBottomInch float64
	MarginLeftInch   float64
	MarginRightInch  float64
	Landscape        bool
}

// Option mutates PDFOptions
type Option func(*PDFOptions)

// WithPaperSize sets the paper size in inches
func WithPaperSize(width, height float64) Option {
	return func(o *PDFOptions) {
		o.PaperWidthInch = width
		o.PaperHeightInch = height
	}
}

// WithMargins sets the page margins in inches
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *PDFOptions) {
		o.MarginTopInch = top
		o.MarginRightInch = right
		o.MarginBottomInch = bottom
		o.MarginLeftInch = left
	}
}

// Predefined paper sizes and margins
var (
	PaperA4       = WithPaperSize(8.27, 11.69)
	PaperLetter   = WithPaperSize(8.5, 11)
	MarginsNormal = WithMargins(0.4, 0.4, 0.4, 0.4)
	MarginsNarrow = WithMargins(0.2, 0.2, 0.2, 0.2)
)

// DefaultPDFOptions is US Letter with normal margins
func DefaultPDFOptions() PDFOptions {
	var o PDFOptions
	PaperLetter(&o)
	MarginsNormal(&o)
	return o
}

// ChromeConverter prints HTML to PDF in headless Chrome
type ChromeConverter struct {
	// RemoteURL connects to an existing Chrome DevTools endpoint instead of launching one
	RemoteURL string
	Timeout   time.Duration
	Defaults  PDFOptions
}

// NewChromeConverter creates a converter with a 60s timeout and default page options
func NewChromeConverter(remoteURL string, timeout time.Duration) *ChromeConverter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromeConverter{
		RemoteURL: remoteURL,
		Timeout:   timeout,
		Defaults:  DefaultPDFOptions(),
	}
}

// ConvertHTMLToPDF loads the document into a blank page and prints it
func (c *ChromeConverter) ConvertHTMLToPDF(ctx context.Context, html string, opts ...Option) ([]byte, error) {
	options := c.Defaults
	for _, opt := range opts {
		opt(&options)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := fetch.NewAllocator(timeoutCtx, c.RemoteURL)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithMarginTop(options.MarginTopInch).
		WithMarginBottom(options.MarginBottomInch).
		WithMarginLeft(options.MarginLeftInch).
		WithMarginRight(options.MarginRightInch).
		WithLandscape(options.Landscape)
	if options.PaperWidthInch > 0 && options.PaperHeightInch > 0 {
		params = params.
			WithPaperWidth(options.PaperWidthInch).
			WithPaperHeight(options.PaperHeightInch)
	}

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to print PDF", Cause: err}
	}
	return pdf, nil
}
