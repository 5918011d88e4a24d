package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-parser/internal/parsing"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Print the job board a page comes from",
	Long:  `Classify job posting HTML as linkedin, indeed or generic. The result depends on the markup only; --url additionally reports the board its host belongs to.`,
	RunE:  runDetect,
}

var (
	detectFile string
	detectURL  string
)

func init() {
	detectCmd.Flags().StringVarP(&detectFile, "file", "f", "", "HTML file to classify (- for stdin)")
	detectCmd.Flags().StringVarP(&detectURL, "url", "u", "", "Posting URL whose host is reported alongside")
	_ = detectCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	var data []byte
	if detectFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(detectFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", detectFile, err)
	}

	engine, err := newEngine(cfg, nil, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), engine.Detect(string(data))); err != nil {
		return err
	}
	if detectURL != "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "url: %s\n", parsing.DetectSourceFromURL(detectURL))
	}
	return err
}
