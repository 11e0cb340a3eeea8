package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment overrides applied after the config file is read.
const (
	EnvDBPath    = "REPOLENS_DB_PATH"
	EnvLogLevel  = "REPOLENS_LOG_LEVEL"
	EnvLogFormat = "REPOLENS_LOG_FORMAT"
)

// Config holds every tunable for the analysis pipeline, the question
// engine, and the surrounding tooling.
type Config struct {
	Database   DatabaseConfig   `json:"database" mapstructure:"database"`
	Analyzer   AnalyzerConfig   `json:"analyzer" mapstructure:"analyzer"`
	QA         QAConfig         `json:"qa" mapstructure:"qa"`
	Summarizer SummarizerConfig `json:"summarizer" mapstructure:"summarizer"`
	LLM        LLMConfig        `json:"llm" mapstructure:"llm"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// DatabaseConfig locates the snapshot store.
type DatabaseConfig struct {
	// Path is the directory holding repolens.db. Empty means ~/.repolens.
	Path string `json:"path" mapstructure:"path"`
}

// AnalyzerConfig tunes repository analysis.
type AnalyzerConfig struct {
	MaxFileSize    int64    `json:"maxFileSize" mapstructure:"maxFileSize"`
	RetainUnder    int      `json:"retainUnder" mapstructure:"retainUnder"`
	IgnorePatterns []string `json:"ignorePatterns" mapstructure:"ignorePatterns"`
}

// QAConfig tunes question answering.
type QAConfig struct {
	ContentCap      int `json:"contentCap" mapstructure:"contentCap"`
	HistoryLimit    int `json:"historyLimit" mapstructure:"historyLimit"`
	CacheSize       int `json:"cacheSize" mapstructure:"cacheSize"`
	CacheTTLSeconds int `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
}

// SummarizerConfig tunes summary generation.
type SummarizerConfig struct {
	Workers int `json:"workers" mapstructure:"workers"`
}

// LLMConfig selects the generation provider. Empty fields fall back to
// environment detection inside the llm package.
type LLMConfig struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model" mapstructure:"model"`
	APIKey   string `json:"apiKey" mapstructure:"apiKey"`
	BaseURL  string `json:"baseUrl" mapstructure:"baseUrl"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "",
		},
		Analyzer: AnalyzerConfig{
			MaxFileSize:    1 << 20,
			RetainUnder:    5000,
			IgnorePatterns: []string{},
		},
		QA: QAConfig{
			ContentCap:      3000,
			HistoryLimit:    10,
			CacheSize:       100,
			CacheTTLSeconds: 600,
		},
		Summarizer: SummarizerConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider: "",
			Model:    "",
			APIKey:   "",
			BaseURL:  "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration. An explicit path must exist; an empty
// path searches the working directory and ~/.repolens for repolens.yaml
// and falls back to defaults when neither has one. Environment overrides
// apply after the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("repolens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".repolens"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("analyzer.maxFileSize", def.Analyzer.MaxFileSize)
	v.SetDefault("analyzer.retainUnder", def.Analyzer.RetainUnder)
	v.SetDefault("analyzer.ignorePatterns", def.Analyzer.IgnorePatterns)
	v.SetDefault("qa.contentCap", def.QA.ContentCap)
	v.SetDefault("qa.historyLimit", def.QA.HistoryLimit)
	v.SetDefault("qa.cacheSize", def.QA.CacheSize)
	v.SetDefault("qa.cacheTtlSeconds", def.QA.CacheTTLSeconds)
	v.SetDefault("summarizer.workers", def.Summarizer.Workers)
	v.SetDefault("llm.provider", def.LLM.Provider)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.apiKey", def.LLM.APIKey)
	v.SetDefault("llm.baseUrl", def.LLM.BaseURL)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

func applyEnvOverrides(cfg *Config) {
	if path := os.Getenv(EnvDBPath); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.Logging.Format = format
	}
}

// Dir resolves the database directory, defaulting to ~/.repolens.
func (d DatabaseConfig) Dir() (string, error) {
	if d.Path != "" {
		return d.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".repolens"), nil
}

// CacheTTL returns the answer cache lifetime as a duration.
func (q QAConfig) CacheTTL() time.Duration {
	return time.Duration(q.CacheTTLSeconds) * time.Second
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}

	if c.Analyzer.MaxFileSize < 0 {
		return &ConfigError{Field: "analyzer.maxFileSize", Message: "cannot be negative"}
	}
	if c.QA.ContentCap < 0 {
		return &ConfigError{Field: "qa.contentCap", Message: "cannot be negative"}
	}
	if c.QA.HistoryLimit < 0 {
		return &ConfigError{Field: "qa.historyLimit", Message: "cannot be negative"}
	}
	if c.QA.CacheTTLSeconds < 0 {
		return &ConfigError{Field: "qa.cacheTtlSeconds", Message: "cannot be negative"}
	}
	if c.Summarizer.Workers < 0 {
		return &ConfigError{Field: "summarizer.workers", Message: "cannot be negative"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
