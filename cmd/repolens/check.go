package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/llm"
)

const checkTimeout = 30 * time.Second

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check LLM provider connectivity",
	Long: `Verify the configured LLM provider answers a canary prompt and list the
models it offers. Exits non-zero when the provider is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		fmt.Println(color.RedString("✗ provider setup failed: %v", err))
		return err
	}
	defer func() { _ = gen.Close() }()

	fmt.Printf("Provider: %s\n", gen.Provider())
	fmt.Printf("Model:    %s\n", gen.Model())

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	ok, message := llm.Ping(ctx, gen)
	if !ok {
		fmt.Println(color.RedString("✗ %s", message))
		return errors.New("provider unreachable")
	}
	fmt.Println(color.GreenString("✓ %s", message))

	if lister, hasModels := gen.(interface {
		Models(context.Context) []string
	}); hasModels {
		models := lister.Models(ctx)
		fmt.Printf("\nAvailable models (%d):\n", len(models))
		shown := models
		if len(shown) > 20 {
			shown = shown[:20]
		}
		for _, model := range shown {
			fmt.Printf("  - %s\n", model)
		}
		if len(models) > len(shown) {
			fmt.Printf("  ... and %d more\n", len(models)-len(shown))
		}
	}
	return nil
}
