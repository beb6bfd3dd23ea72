// Package fetch turns a URL into plain text suitable as slide source material.
// It fetches over HTTP, extracts the main text with goquery, rewrites
// Google Docs links to their plain-text export and can fall back to a
// headless browser for script-rendered pages.
package fetch

import (
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
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SlideAgent/1.0)"

// DefaultMaxBytes bounds how much of a response body is read.
const DefaultMaxBytes = 8 << 20

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	MaxBytes  int64
	// UseBrowser enables the headless browser fallback when HTTP extraction yields too little text
	UseBrowser bool
	Logger     *zap.Logger
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
		Logger:    zap.NewNop(),
	}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	copied := *o
	if copied.Timeout <= 0 {
		copied.Timeout = DefaultTimeout
	}
	if copied.UserAgent == "" {
		copied.UserAgent = DefaultUserAgent
	}
	if copied.MaxBytes <= 0 {
		copied.MaxBytes = DefaultMaxBytes
	}
	if copied.Logger == nil {
		copied.Logger = zap.NewNop()
	}
	return &copied
}

// Text fetches urlStr and returns its readable text.
// Google Docs links are rewritten to the plain-text export first.
// Plain-text responses are returned as-is after whitespace cleanup; HTML
// goes through ExtractMainText with platform-specific selectors.
func Text(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	opts = opts.withDefaults()

	target := urlStr
	if exportURL, ok := GoogleDocsExportURL(urlStr); ok {
		opts.Logger.Debug("rewriting Google Docs URL to text export", zap.String("url", urlStr))
		target = exportURL
	}

	result, err := URL(ctx, target, opts)
	if err != nil {
		return result, err
	}

	if isPlainText(result.ContentType) {
		result.Text = cleanWhitespace(result.HTML)
	} else {
		platform := DetectPlatform(target)
		text, err := ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
		if err != nil {
			return result, &Error{URL: target, Message: "failed to extract text", Cause: err}
		}
		result.Text = text

		if opts.UseBrowser && ShouldUseBrowser(text) {
			opts.Logger.Info("page text too short, rendering in browser",
				zap.String("url", target),
				zap.Int("text_length", len(text)))
			html, err := Render(ctx, target, opts)
			if err != nil {
				return result, &Error{URL: target, Message: "browser fallback failed", Cause: err}
			}
			text, err = ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
			if err != nil {
				return result, &Error{URL: target, Message: "failed to extract rendered text", Cause: err}
			}
			result.HTML = html
			result.Text = text
		}
	}

	if strings.TrimSpace(result.Text) == "" {
		return result, &Error{URL: target, Message: "no readable text found"}
	}
	return result, nil
}

// URL retrieves content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	opts = opts.withDefaults()

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	if len(noiseSelectors) > 0 {
		noiseSelector := strings.Join(noiseSelectors, ", ")
		if noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	// Block elements get a line break so paragraphs do not run together
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, tr, br, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// isPlainText reports whether a Content-Type header names text/plain
func isPlainText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/plain"
}

// cleanWhitespace trims each line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
