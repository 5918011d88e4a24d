package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-parser/internal/server"
)

var (
	servePort  int
	serveFetch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing /parse, /detect, /cache, /schema and /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveFetch, "fetch", true, "Fetch postings for /parse requests that only carry a URL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd.ErrOrStderr())

	store, closeStore, err := openStore(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	engine, err := newEngine(cfg, store, logger)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:   servePort,
		Engine: engine,
		Store:  store,
		Logger: logger,
	}
	if serveFetch {
		srvCfg.Fetcher = newFetcher(cfg, logger)
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
