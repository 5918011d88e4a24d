package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-parser/internal/markup"
)

// MinContentLength is the minimum visible text length to consider an HTTP
// fetch complete. Shorter pages are likely JavaScript-rendered.
const MinContentLength = 500

// Renderer renders a page and returns its final HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, url string) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// ShouldUseBrowser returns true if the page's visible text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(html string) bool {
	doc, err := markup.Parse(html)
	if err != nil {
		return true
	}
	body, ok := doc.SelectOne("body")
	if !ok {
		return true
	}
	return len(body.Text()) < MinContentLength
}

// ChromeRenderer renders pages in headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	Timeout time.Duration
	Logger  *log.Logger
	Verbose bool
}

// Render navigates to url, waits for the body to settle and returns the
// rendered HTML.
func (c *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if c.Verbose && c.Logger != nil {
		c.Logger.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Job boards fill the description in after load
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if c.Verbose && c.Logger != nil {
		c.Logger.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}
