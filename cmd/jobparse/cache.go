package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-parser/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage cached postings",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached posting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, store cache.Store) error {
			n, err := store.Clear(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached postings\n", n)
			return err
		})
	},
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <identity>",
	Short: "Print the cached posting for an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store cache.Store) error {
			posting, ok, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no cached posting for %s", args[0])
			}
			data, err := posting.ToJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		})
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <identity>",
	Short: "Remove the cached posting for an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store cache.Store) error {
			removed, err := store.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if removed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			} else {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Not cached: %s\n", args[0])
			}
			return err
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheGetCmd, cacheDeleteCmd)
	rootCmd.AddCommand(cacheCmd)
}

// withStore opens the configured cache for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store cache.Store) error) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := openStore(ctx, cfg, newLogger(cmd.ErrOrStderr()), false)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if store == nil {
		return fmt.Errorf("caching is disabled (cache_backend is %q)", cfg.CacheBackend)
	}
	return fn(ctx, store)
}
