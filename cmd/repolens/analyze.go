package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/storage"
	"github.com/dshills/repolens/pkg/types"
)

var analyzeSave bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a repository",
	Long: `Walk a repository, classify and parse its files, and print an analysis
summary. With --save the snapshot is persisted to the local store so later
questions skip re-analysis.

Examples:
  repolens analyze .
  repolens analyze /path/to/repo --save`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the snapshot to the local store")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	root, err := repoRoot(args[0])
	if err != nil {
		return err
	}

	faint := color.New(color.Faint).SprintFunc()
	start := time.Now()
	analysis, err := newAnalyzer(cfg, log).Analyze(cmd.Context(), root, func(message string) {
		fmt.Println(faint(message))
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printAnalysisSummary(analysis, time.Since(start))

	if analyzeSave {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.SaveSnapshot(cmd.Context(), &storage.Snapshot{Analysis: analysis}); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Println(color.GreenString("Snapshot saved for %s", root))
	}
	return nil
}

func printAnalysisSummary(analysis *types.RepositoryAnalysis, elapsed time.Duration) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n%s %s\n\n", bold("Analyzed"), cyan(analysis.RootPath))
	fmt.Printf("  Files:     %d discovered, %d analyzed\n", analysis.TotalFiles, analysis.AnalyzedFiles)
	fmt.Printf("  Lines:     %d\n", analysis.Totals.Lines)
	fmt.Printf("  Functions: %d\n", analysis.Totals.Functions)
	fmt.Printf("  Classes:   %d\n", analysis.Totals.Classes)
	fmt.Printf("  Duration:  %s\n", elapsed.Round(time.Millisecond))

	if len(analysis.Languages) > 0 {
		fmt.Printf("\n%s\n", bold("Languages"))
		for _, name := range languagesByFiles(analysis.Languages) {
			stat := analysis.Languages[name]
			fmt.Printf("  %-12s %d files, %d lines\n", name, stat.Files, stat.Lines)
		}
	}
}

// languagesByFiles orders language names by file count, ties by name.
func languagesByFiles(langs map[string]*types.LanguageStat) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := langs[names[i]], langs[names[j]]
		if a.Files != b.Files {
			return a.Files > b.Files
		}
		return names[i] < names[j]
	})
	return names
}
