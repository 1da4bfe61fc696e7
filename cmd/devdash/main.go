// devdash: a dashboard over the project folders in one directory.
//
// It serves the same project data three ways: a REST API for the web
// UI, an MCP server for AI coding tools and a lightweight MCP server
// with compact JSON answers.
//
// Usage:
//
//	devdash web          # Start the REST API (and static UI)
//	devdash serve        # Start the MCP server (stdio transport)
//	devdash serve-lite   # Start the lite MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HendryAvila/devdash/internal/api"
	"github.com/HendryAvila/devdash/internal/config"
	"github.com/HendryAvila/devdash/internal/liteserver"
	"github.com/HendryAvila/devdash/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "web":
		err = run(runWeb)
	case "serve":
		err = run(runMCP)
	case "serve-lite":
		err = run(runLite)
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("devdash v%s\n", server.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runner func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error

// run loads configuration, sets up logging and cancels ctx on
// SIGINT/SIGTERM before handing over to the subcommand.
func run(fn runner) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr: stdout carries the MCP stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting devdash", "version", server.Version, "scan_dir", cfg.ScanDir)
	return fn(ctx, cfg, logger)
}

func runWeb(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	svc, cleanup, err := server.Bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	h := &api.Handlers{Dashboard: svc}
	router := api.NewRouter(h, cfg.Server.StaticDir, logger)
	return api.Serve(ctx, cfg.Server.Addr(), router, logger)
}

func runMCP(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	svc, cleanup, err := server.Bootstrap(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// The stdio server manages its own lifecycle and exits on EOF.
	return mcpserver.ServeStdio(server.New(svc))
}

func runLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	svc, cleanup, err := server.Bootstrap(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	srv := liteserver.Setup(&liteserver.Handler{Dashboard: svc, Logger: logger}, server.Version)
	logger.Info("lite MCP server starting on stdio")
	if err := srv.Run(ctx, &sdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `devdash v%s, a dashboard over your local projects

Usage:
  devdash web          Start the REST API on HOST:PORT (default 127.0.0.1:5001)
  devdash serve        Start the MCP server (stdio transport)
  devdash serve-lite   Start the lite MCP server (stdio transport)
  devdash version      Print the version

Configuration (lowest precedence first):
  devdash.yaml, .env, then environment variables:
  SCAN_DIR / DEVDASH_SCAN_DIR   folder whose children are projects
  HOST, PORT                    REST API listener
  DB_PATH                       SQLite database (default ~/.devdash/devdash.db)
  DEVDASH_LOG_LEVEL             debug|info|warn|error
  DEVDASH_EDITOR, DEVDASH_EDITORS
  DEVDASH_EXCLUDE, DEVDASH_RESPECT_GITIGNORE

MCP config example:

  {
    "mcpServers": {
      "devdash": {
        "command": "devdash",
        "args": ["serve"]
      }
    }
  }
`, server.Version)
}
