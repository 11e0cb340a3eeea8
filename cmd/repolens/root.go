package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/analyzer"
	"github.com/dshills/repolens/internal/config"
	"github.com/dshills/repolens/internal/llm"
	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/storage"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	dbFlag       string
	logLevelFlag string
	providerFlag string
	modelFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "RepoLens - repository analysis and question answering",
	Long: `RepoLens statically analyzes a repository, builds a searchable model of
its files, functions, and classes, and answers natural-language questions
about it with LLM assistance.

Analysis never executes the code it reads. Without an LLM provider
configured, analysis and retrieval still work; answers and summaries
degrade to deterministic fallbacks.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"RepoLens {{.Version}}\nBuild Time: %s\nSQLite Driver: %s (%s build)\n",
		buildTime, storage.DriverName, storage.BuildMode))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (default ./repolens.yaml, then ~/.repolens/repolens.yaml)")
	pf.StringVar(&dbFlag, "db", "", "database directory (default ~/.repolens)")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&providerFlag, "provider", "", "LLM provider: openrouter or ollama")
	pf.StringVar(&modelFlag, "model", "", "LLM model identifier")
}

// loadConfig builds the effective configuration: file, then REPOLENS_*
// environment, then command-line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.Database.Path = dbFlag
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if providerFlag != "" {
		cfg.LLM.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.LLM.Model = modelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func newAnalyzer(cfg *config.Config, log *slog.Logger) *analyzer.Analyzer {
	return analyzer.New(analyzer.Options{
		MaxFileSize:    cfg.Analyzer.MaxFileSize,
		RetainUnder:    cfg.Analyzer.RetainUnder,
		IgnorePatterns: cfg.Analyzer.IgnorePatterns,
		Logger:         logging.Component(log, "analyzer"),
	})
}

// newGenerator builds the configured LLM client. Setup failure is not
// fatal; callers get nil and answers degrade to fixed fallbacks.
func newGenerator(cfg *config.Config, log *slog.Logger) llm.Generator {
	gen, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		log.Warn("LLM provider unavailable, using fallback answers", "error", err)
		return nil
	}
	return gen
}

// openStore opens the snapshot database under the configured directory.
func openStore(cfg *config.Config) (storage.Storage, error) {
	dir, err := cfg.Database.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return storage.NewSQLiteStorage(filepath.Join(dir, "repolens.db"))
}

// repoRoot normalizes and checks a repository path argument.
func repoRoot(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}
