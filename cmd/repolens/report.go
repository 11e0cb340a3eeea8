package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/report"
	"github.com/dshills/repolens/internal/summarizer"
	"github.com/dshills/repolens/pkg/types"
)

var (
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Export a full analysis report",
	Long: `Render the repository analysis as a report. A stored summary is reused;
otherwise one is generated, which calls the LLM provider per file plus a
few repository-level prompts. Without a provider the report falls back to
deterministic text.

Examples:
  repolens report . --format md --out report.md
  repolens report /path/to/repo --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Report format: md or json")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write to file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case "md", "markdown", "json":
	default:
		return fmt.Errorf("%w %q (md or json)", types.ErrUnsupportedFormat, reportFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	root, err := repoRoot(args[0])
	if err != nil {
		return err
	}

	gen := newGenerator(cfg, log)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine, _, err := loadEngine(cmd.Context(), cfg, log, gen, store, root)
	if err != nil {
		return err
	}

	summary := engine.Summary()
	if summary == nil {
		faint := color.New(color.Faint).SprintFunc()
		sum := summarizer.New(summarizer.Options{
			Generator: gen,
			Logger:    logging.Component(log, "summarizer"),
			Workers:   cfg.Summarizer.Workers,
			OnProgress: func(stage string) {
				fmt.Fprintln(os.Stderr, faint(stage))
			},
		})
		summary, err = sum.Summarize(cmd.Context(), engine.Snapshot())
		if err != nil {
			return fmt.Errorf("summary generation failed: %w", err)
		}
	}

	var data []byte
	if reportFormat == "json" {
		data, err = report.JSON(summary)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	} else {
		data = report.Markdown(summary)
	}

	if reportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(reportOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Println(color.GreenString("Report written to %s", reportOut))
	return nil
}
