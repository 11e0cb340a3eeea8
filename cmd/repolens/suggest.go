package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <path>",
	Short: "Suggest questions to ask about a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	root, err := repoRoot(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Suggestions never need the generator
	engine, _, err := loadEngine(cmd.Context(), cfg, log, nil, store, root)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s\n", bold("Try asking:"))
	for i, question := range engine.Suggest() {
		fmt.Printf("  %2d. %s\n", i+1, question)
	}
	return nil
}
