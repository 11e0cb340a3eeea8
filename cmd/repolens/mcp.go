package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/repolens/internal/mcp"
	"github.com/dshills/repolens/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server. MCP clients call the
analyze_repository, ask_question, suggest_questions, repository_status,
and export_report tools over stdio using JSON-RPC 2.0.

This command is typically invoked by MCP clients rather than directly by
users. All logs go to stderr; stdout carries protocol traffic.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	gen := newGenerator(cfg, log)

	server, err := mcp.NewServer(mcp.Options{
		DBPath:    cfg.Database.Path,
		Generator: gen,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	log.Info("MCP server starting", "version", version, "driver", storage.DriverName)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())
		cancel()
	case err := <-errChan:
		if err != nil {
			return err
		}
	}
	return nil
}
