package fetch

import (
	"context"
	"io"
	"log"
)

// Fetcher obtains job posting markup for a URL. It satisfies the engine's
// fetcher contract and is safe for concurrent use.
type Fetcher struct {
	opts     *Options
	limiter  *HostLimiter
	renderer Renderer
	logger   *log.Logger
	verbose  bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithOptions sets the HTTP options.
func WithOptions(opts *Options) Option {
	return func(f *Fetcher) { f.opts = opts }
}

// WithLimiter sets the per-host limiter.
func WithLimiter(l *HostLimiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithRenderer enables the browser fallback for pages with little visible text.
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) { f.renderer = r }
}

// WithLogger sets the logger for fallback warnings and verbose output.
func WithLogger(l *log.Logger, verbose bool) Option {
	return func(f *Fetcher) {
		f.logger = l
		f.verbose = verbose
	}
}

// New creates a Fetcher. Without options it fetches with DefaultOptions, one
// request per second per host and no browser.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}
	if f.opts == nil {
		f.opts = DefaultOptions()
	}
	if f.limiter == nil {
		f.limiter = NewHostLimiter(1, 1)
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard, "", 0)
	}
	return f
}

// Fetch returns the markup at urlStr. When a renderer is configured and the
// HTTP response looks like an empty JavaScript shell, the rendered page is
// returned instead; a failed render falls back to the HTTP body.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr); err != nil {
		return "", err
	}
	if err := f.limiter.WaitURL(ctx, urlStr); err != nil {
		return "", &Error{URL: urlStr, Message: "rate limit wait cancelled", Cause: err}
	}

	if f.verbose {
		f.logger.Printf("[fetch] GET %s", urlStr)
	}
	result, err := URL(ctx, urlStr, f.opts)
	if err != nil {
		return "", err
	}

	if f.renderer == nil || !ShouldUseBrowser(result.HTML) {
		return result.HTML, nil
	}

	if f.verbose {
		f.logger.Printf("[fetch] %s has little visible text, rendering in browser", urlStr)
	}
	rendered, err := f.renderer.Render(ctx, urlStr)
	if err != nil {
		f.logger.Printf("[fetch] browser fallback failed for %s: %v", urlStr, err)
		return result.HTML, nil
	}
	return rendered, nil
}
