package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/progress"
	"github.com/academydays/hubby/internal/sheet"
	"github.com/academydays/hubby/internal/source"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build [workbook.xlsx | url]",
	Short: "Build the knowledge-base JSON from a workbook",
	Long: `Reads a workbook from disk or from a URL (defaults to source.spreadsheet_url),
classifies its sheets, resolves day columns and writes the knowledge-base
document used by the static source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		input := cfg.Source.SpreadsheetURL
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("no workbook given and source.spreadsheet_url is empty")
		}
		output := buildOutput
		if output == "" {
			output = cfg.Source.StaticPath
		}

		reporter := progress.NewReporter()
		opts := sheet.OptionsFromConfig(cfg)
		opts.Logger = logger
		opts.Progress = progress.SheetFunc(reporter)

		var (
			doc   *knowledge.Document
			stats sheet.Stats
		)
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			src := &source.SpreadsheetSource{URL: input, Options: opts}
			doc, err = src.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching workbook: %w", err)
			}
			stats = src.LastStats
		} else {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("opening workbook: %w", err)
			}
			wb, err := sheet.ReadWorkbook(f)
			f.Close()
			if err != nil {
				return err
			}
			doc, stats = sheet.Transform(wb, opts)
		}
		reporter.Finish()

		if err := writeDocument(output, doc); err != nil {
			return err
		}

		logger.Info("knowledge base written",
			zap.String("path", output),
			zap.Int("sheets", stats.Sheets),
			zap.Int("rows", stats.Rows),
			zap.Int("dropped", stats.Dropped),
			zap.Int("entries", stats.Entries))
		fmt.Fprintf(os.Stderr, "Wrote %s: %d entries from %d sheets (%d rows dropped)\n",
			output, stats.Entries, stats.Sheets, stats.Dropped)
		return nil
	},
}

// writeDocument replaces path atomically so a running static source never
// reads a half-written file.
func writeDocument(path string, doc *knowledge.Document) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hubby-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := doc.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path (defaults to source.static_path)")
	rootCmd.AddCommand(buildCmd)
}
