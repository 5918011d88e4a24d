package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-parser/internal/config"
	"github.com/jonathan/job-parser/internal/observability"
	"github.com/jonathan/job-parser/internal/parsing"
	"github.com/jonathan/job-parser/internal/schemas"
	"github.com/jonathan/job-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse job posting HTML into structured JSON",
	Long: `Parse one or more job postings. Inputs are HTML files ("-" reads stdin) or URLs,
which are fetched unless already cached. A single input prints one JSON object;
several inputs print a JSON array in input order.`,
	RunE: runParse,
}

var (
	parseFiles    []string
	parseURLs     []string
	parseIdentity string
	parseOut      string
	parseNoCache  bool
	parseValidate bool
	parseBrowser  bool
	parseSummary  bool
)

func init() {
	parseCmd.Flags().StringArrayVarP(&parseFiles, "file", "f", nil, "HTML file to parse (repeatable, - for stdin)")
	parseCmd.Flags().StringArrayVarP(&parseURLs, "url", "u", nil, "Job posting URL to fetch and parse (repeatable)")
	parseCmd.Flags().StringVar(&parseIdentity, "identity", "", "Cache identity (usually the posting URL) for a single --file")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Write JSON to this file instead of stdout")
	parseCmd.Flags().BoolVar(&parseNoCache, "no-cache", false, "Bypass the result cache")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Validate output against the JobPosting JSON schema")
	parseCmd.Flags().BoolVar(&parseBrowser, "browser", false, "Render JavaScript-heavy pages in headless Chrome")
	parseCmd.Flags().BoolVar(&parseSummary, "summary", false, "Print a human-readable summary of each posting to stderr")

	rootCmd.AddCommand(parseCmd)
}

// parseOptions holds the inputs of one parse invocation.
type parseOptions struct {
	Files    []string
	URLs     []string
	Identity string
	Validate bool
	// Summary receives a boxed summary per posting when non-nil.
	Summary io.Writer
}

// parseInput is one unit of batch work.
type parseInput struct {
	label string
	input parsing.Input
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if parseBrowser {
		cfg.UseBrowser = true
	}

	logger := newLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := openStore(ctx, cfg, logger, parseNoCache)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	engine, err := newEngine(cfg, store, logger)
	if err != nil {
		return err
	}

	opts := parseOptions{
		Files:    append(append([]string{}, parseFiles...), args...),
		URLs:     parseURLs,
		Identity: parseIdentity,
		Validate: parseValidate,
	}
	if parseSummary || cfg.Verbose {
		opts.Summary = cmd.ErrOrStderr()
	}

	var fetcher parsing.Fetcher
	if len(opts.URLs) > 0 {
		fetcher = newFetcher(cfg, logger)
	}

	out := cmd.OutOrStdout()
	if parseOut != "" {
		f, err := os.Create(parseOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return parseAll(ctx, engine, fetcher, cfg, opts, cmd.InOrStdin(), out)
}

// parseAll parses every input concurrently and writes the results in input order.
func parseAll(ctx context.Context, engine *parsing.Engine, fetcher parsing.Fetcher, cfg config.Config, opts parseOptions, stdin io.Reader, out io.Writer) error {
	inputs, err := collectInputs(opts, fetcher, stdin)
	if err != nil {
		return err
	}

	results := make([]*types.JobPosting, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = config.DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, in := range inputs {
		g.Go(func() error {
			posting, err := engine.Parse(gctx, in.input)
			if err != nil {
				return fmt.Errorf("%s: %w", in.label, err)
			}
			if opts.Validate {
				if err := validatePosting(posting); err != nil {
					return fmt.Errorf("%s: %w", in.label, err)
				}
			}
			results[i] = posting
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.Summary != nil {
		printer := observability.NewPrinter(opts.Summary)
		for i, posting := range results {
			printer.PrintJobPosting(inputs[i].label, posting)
		}
	}

	return writeResults(out, results)
}

// collectInputs turns files and URLs into engine inputs.
func collectInputs(opts parseOptions, fetcher parsing.Fetcher, stdin io.Reader) ([]parseInput, error) {
	if len(opts.Files) == 0 && len(opts.URLs) == 0 {
		return nil, fmt.Errorf("nothing to parse: pass --file, --url or a file argument")
	}
	if opts.Identity != "" && (len(opts.Files) != 1 || len(opts.URLs) > 0) {
		return nil, fmt.Errorf("--identity needs exactly one --file and no --url")
	}

	var inputs []parseInput
	readStdin := false
	for _, path := range opts.Files {
		var data []byte
		var err error
		if path == "-" {
			if readStdin {
				return nil, fmt.Errorf("stdin can only be read once")
			}
			readStdin = true
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, parseInput{
			label: path,
			input: parsing.Input{HTML: string(data), Identity: opts.Identity},
		})
	}

	for _, u := range opts.URLs {
		u = strings.TrimSpace(u)
		inputs = append(inputs, parseInput{
			label: u,
			input: parsing.Input{Identity: u, Fetcher: fetcher},
		})
	}
	return inputs, nil
}

// validatePosting checks a posting's serialized form against the JSON schema.
func validatePosting(posting *types.JobPosting) error {
	data, err := posting.ToJSON()
	if err != nil {
		return err
	}
	if err := schemas.ValidateJobPosting(data); err != nil {
		return fmt.Errorf("output does not validate against schema: %w", err)
	}
	return nil
}

func writeResults(out io.Writer, results []*types.JobPosting) error {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
