// Package fetch retrieves job postings from the web and reduces their HTML to text.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds a single page request or browser render.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the fetcher to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeTailor/1.0)"

	maxBodyBytes = 5 << 20
)

// boilerplate is stripped from every page before extraction
const boilerplate = "nav, footer, header, script, style, noscript, iframe, svg, " +
	".ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Page is a fetched HTML document. HTML is always UTF-8.
type Page struct {
	URL         string
	FinalURL    string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error reports a failed fetch or extraction of URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "fetch " + e.URL + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Options configures fetching. The zero value fetches statically with defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client
	// UseBrowser enables the headless Chrome fallback for script-rendered pages
	UseBrowser bool
	Browser    BrowserOptions
	Logger     *zap.Logger
}

// DefaultOptions enables the browser fallback.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		UseBrowser: true,
		Browser:    BrowserOptions{Timeout: DefaultTimeout},
		Logger:     zap.NewNop(),
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Get downloads an http(s) page. Non-2xx responses return the page along with
// an error. Bodies are decoded to UTF-8 using the declared or sniffed charset.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "build request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := resp.Header.Get("Content-Type")
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		page.HTML = string(raw)
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	page.HTML, err = decodeBody(raw, contentType)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "unsupported charset", Cause: err}
	}
	if !isHTML(contentType) {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("not an HTML page (%s)", contentType)}
	}
	return page, nil
}

// decodeBody converts raw to UTF-8 using the declared or sniffed charset
func decodeBody(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isHTML accepts a missing content type since some boards omit it
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml" || mediaType == "text/plain"
}

// Selectors locate the posting body. Content is tried in order and the first
// match wins; the whole body is used when none match. Noise is removed first.
type Selectors struct {
	Content []string
	Noise   []string
}

// ExtractText returns the visible text of the posting body, one trimmed line per
// text line with blank lines dropped.
func ExtractText(html string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find(boilerplate).Remove()
	if len(sel.Noise) > 0 {
		doc.Find(strings.Join(sel.Noise, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, s := range sel.Content {
		if match := doc.Find(s); match.Length() > 0 {
			root = match.First()
			break
		}
	}
	return cleanWhitespace(root.Text()), nil
}

// GenericContentSelectors are used for boards without dedicated rules.
func GenericContentSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"[itemprop='description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

func cleanWhitespace(text string) string {
	var b strings.Builder
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
