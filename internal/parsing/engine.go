// Package parsing extracts structured job postings from job board markup.
package parsing

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/jonathan/job-parser/internal/cache"
	"github.com/jonathan/job-parser/internal/markup"
	"github.com/jonathan/job-parser/internal/patterns"
	"github.com/jonathan/job-parser/internal/types"
)

// Fetcher obtains the markup for an identity, usually a URL.
type Fetcher interface {
	Fetch(ctx context.Context, identity string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, identity string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, identity string) (string, error) {
	return f(ctx, identity)
}

// Input is a parse request. At least one of HTML or Identity+Fetcher must be
// usable; Identity alone is enough when the posting is cached.
type Input struct {
	HTML     string
	Identity string
	Fetcher  Fetcher
}

// Engine turns job posting markup into a JobPosting, consulting the cache
// first when the input carries an identity. It is safe for concurrent use.
type Engine struct {
	store     cache.Store
	lib       *patterns.Library
	detector  SourceDetector
	fields    FieldResolver
	signals   *Signals
	segmenter *Segmenter
	logger    *log.Logger
	verbose   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLibrary replaces the built-in pattern tables.
func WithLibrary(lib *patterns.Library) Option {
	return func(e *Engine) { e.lib = lib }
}

// WithDetector replaces the probe-based source detector.
func WithDetector(d SourceDetector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithFieldResolver replaces the selector/regex field chain.
func WithFieldResolver(r FieldResolver) Option {
	return func(e *Engine) { e.fields = r }
}

// WithLogger sets the logger for cache warnings and verbose output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithVerbose enables [VERBOSE] progress lines.
func WithVerbose(v bool) Option {
	return func(e *Engine) { e.verbose = v }
}

// NewEngine creates an Engine. store may be nil to disable caching.
func NewEngine(store cache.Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}

	if e.lib == nil {
		e.lib = patterns.Default()
	}
	if e.detector == nil {
		e.detector = NewProbeDetector(e.lib)
	}
	if e.fields == nil {
		e.fields = NewFieldExtractor(e.lib)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	e.signals = NewSignals(e.lib)
	e.segmenter = NewSegmenter(e.lib)
	return e
}

// ParseHTML parses a document, caching the result under identity if non-empty.
func (e *Engine) ParseHTML(ctx context.Context, html, identity string) (*types.JobPosting, error) {
	return e.Parse(ctx, Input{HTML: html, Identity: identity})
}

// Parse resolves in into a JobPosting. A cached posting for in.Identity is
// returned as stored. Malformed markup never fails; the only errors are a
// cancelled context, an input with nothing to parse, and fetch failures.
func (e *Engine) Parse(ctx context.Context, in Input) (*types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	identity := strings.TrimSpace(in.Identity)
	if identity != "" && e.store != nil {
		posting, ok, err := e.store.Get(ctx, identity)
		switch {
		case err != nil:
			e.logger.Printf("[cache] lookup failed for %s: %v", identity, err)
		case ok:
			e.debugf("cache hit for %s", identity)
			return posting, nil
		}
	}

	raw := in.HTML
	if strings.TrimSpace(raw) == "" {
		if in.Fetcher == nil {
			if identity == "" {
				return nil, &UnsupportedInputError{Message: "neither a document nor an identity was supplied"}
			}
			return nil, &UnsupportedInputError{Message: "no document supplied and no fetcher available for " + identity}
		}
		if identity == "" {
			return nil, &UnsupportedInputError{Message: "a fetcher needs an identity to fetch"}
		}

		e.debugf("fetching %s", identity)
		fetched, err := in.Fetcher.Fetch(ctx, identity)
		if err != nil {
			return nil, &FetchError{Identity: identity, Cause: err}
		}
		raw = fetched
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posting := e.extract(raw, identity)

	if identity != "" && e.store != nil {
		if err := e.store.Put(ctx, identity, posting); err != nil {
			e.logger.Printf("[cache] failed to store %s: %v", identity, err)
		}
	}
	return posting, nil
}

func (e *Engine) extract(raw, identity string) *types.JobPosting {
	doc, err := markup.Parse(raw)
	if err != nil {
		e.logger.Printf("[parse] failed to read markup, continuing with an empty document: %v", err)
		doc = markup.Empty()
	}

	kind := e.Detect(raw)

	posting := types.NewJobPosting()
	if v, ok := e.fields.ExtractField(doc, raw, kind, patterns.FieldCompany); ok {
		posting.Company = v
	}
	if v, ok := e.fields.ExtractField(doc, raw, kind, patterns.FieldTitle); ok {
		posting.Position = v
	}
	posting.Location = optional(e.fields.ExtractField(doc, raw, kind, patterns.FieldLocation))
	posting.Salary = optional(e.fields.ExtractField(doc, raw, kind, patterns.FieldSalary))
	posting.Description = optional(e.fields.ExtractField(doc, raw, kind, patterns.FieldDescription))

	posting.Remote = e.signals.RemoteStatus(raw)

	text := posting.Position + "\n" + doc.Text()
	posting.JobType = optional(e.signals.JobType(text))
	posting.ExperienceLevel = optional(e.signals.ExperienceLevel(text))

	var description string
	if posting.Description != nil {
		description = *posting.Description
	}
	sections := e.segmenter.Segment(description)
	if len(sections.Requirements) == 0 && len(sections.Responsibilities) == 0 {
		e.debugf("no headings in description, trying heading elements")
		fallback := e.segmenter.SegmentDocument(doc)
		sections.Requirements = fallback.Requirements
		sections.Responsibilities = fallback.Responsibilities
		if len(sections.Benefits) == 0 {
			sections.Benefits = fallback.Benefits
		}
	}
	posting.Requirements = sections.Requirements
	posting.Responsibilities = sections.Responsibilities
	posting.Benefits = sections.Benefits

	if identity != "" {
		posting.URL = types.StringPtr(identity)
	}

	e.debugf("extracted %q at %q: %d requirements, %d responsibilities, %d benefits",
		posting.Position, posting.Company,
		len(posting.Requirements), len(posting.Responsibilities), len(posting.Benefits))
	return posting
}

// Detect classifies raw with the engine's detector. The result depends on the
// markup alone; identities never influence it.
func (e *Engine) Detect(raw string) types.SourceKind {
	kind := e.detector.Detect(raw)
	e.debugf("detected source %s", kind)
	return kind
}

func (e *Engine) debugf(format string, args ...any) {
	if e.verbose {
		e.logger.Printf("[VERBOSE] "+format, args...)
	}
}
