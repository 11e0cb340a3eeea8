package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/storage"
	"github.com/dshills/repolens/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <path> <question...>",
	Short: "Ask a question about a repository",
	Long: `Answer a natural-language question about a repository. A snapshot saved
with 'repolens analyze --save' is reused together with its conversation
history; otherwise the repository is analyzed on the spot.

Examples:
  repolens ask . "what does this project do?"
  repolens ask /path/to/repo where is the entry point`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	root, err := repoRoot(args[0])
	if err != nil {
		return err
	}
	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return errors.New("question cannot be empty")
	}

	gen := newGenerator(cfg, log)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine, fromStore, err := loadEngine(cmd.Context(), cfg, log, gen, store, root)
	if err != nil {
		return err
	}

	answer, qctx := engine.Answer(cmd.Context(), question)

	// The trail only persists for saved snapshots
	if fromStore {
		history := engine.History()
		if len(history) > 0 {
			turn := history[len(history)-1]
			if err := store.AppendTurns(cmd.Context(), root, []types.ConversationTurn{turn}); err != nil && !errors.Is(err, storage.ErrNotFound) {
				log.Warn("failed to persist conversation turn", "path", root, "error", err)
			}
		}
	}

	fmt.Println(answer)
	if !qctx.IsEmpty() {
		faint := color.New(color.Faint).SprintFunc()
		fmt.Println(faint(fmt.Sprintf("(context: %d files, %d functions, %d classes)",
			len(qctx.Files), len(qctx.Functions), len(qctx.Classes))))
	}
	return nil
}
