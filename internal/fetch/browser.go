package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the number of characters of extracted text below which
// a page is assumed to be rendered client-side.
const MinContentLength = 500

// renderSettle is how long page scripts get to run after the body is ready
const renderSettle = 2 * time.Second

// ShouldUseBrowser reports whether extracted text is too short to be the page's real content
func ShouldUseBrowser(extractedText string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(extractedText)) < MinContentLength
}

// Render loads url in headless Chrome and returns the rendered document HTML,
// using the user agent, timeout and size limit from opts.
// Requires Chrome or Chromium on the host.
func Render(ctx context.Context, url string, opts *Options) (string, error) {
	opts = opts.withDefaults()
	opts.Logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.UserAgent(opts.UserAgent),
			chromedp.NoSandbox,
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx, chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(renderSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	})
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if int64(len(html)) > opts.MaxBytes {
		html = html[:opts.MaxBytes]
	}
	opts.Logger.Debug("browser rendered page", zap.String("url", url), zap.Int("html_bytes", len(html)))
	return html, nil
}
