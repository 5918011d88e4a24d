// Package main provides the jobparse command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobparse",
	Short: "Extract structured job postings from job board pages",
	Long: "jobparse turns LinkedIn, Indeed and generic job board HTML into structured JSON " +
		"(company, position, location, salary, requirements, responsibilities, benefits), " +
		"caching results by URL.",
	SilenceUsage: true,
}

var (
	configPath   string
	verbose      bool
	cacheBackend string
	cacheDir     string
	patternsFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "Cache backend: file, sqlite, postgres or none")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for the file cache")
	rootCmd.PersistentFlags().StringVar(&patternsFile, "patterns", "", "YAML overlay with extra selectors and keywords")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
