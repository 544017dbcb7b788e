// Package main is the entry point for the s3mcp MCP tool server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/s3mcp/s3mcp/internal/config"
	"github.com/s3mcp/s3mcp/internal/logging"
	"github.com/s3mcp/s3mcp/internal/metrics"
	"github.com/s3mcp/s3mcp/internal/server"
	"github.com/s3mcp/s3mcp/internal/storage"
	"github.com/s3mcp/s3mcp/internal/tools"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (default: from config or info)")
	logFormat := flag.String("log-format", "", "log format: text, json (default: from config or text)")
	debugAddr := flag.String("debug-addr", "", "address for the debug HTTP listener (default: from config; empty disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override config file values.
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if *debugAddr != "" {
		cfg.Debug.Addr = *debugAddr
	}

	// Logs go to stderr: stdout belongs to the MCP transport.
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	metrics.Register()

	ctx := context.Background()
	client, err := storage.New(ctx,
		cfg.AWS.AccessKeyID,
		cfg.AWS.SecretAccessKey,
		cfg.AWS.Region,
		cfg.AWS.EndpointURL,
		cfg.AWS.UsePathStyle,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize S3 client: %v\n", err)
		os.Exit(1)
	}

	var debug *server.Debug
	if cfg.Debug.Addr != "" {
		debug = server.NewDebug()
		go func() {
			slog.Info("debug listener starting", "addr", cfg.Debug.Addr)
			if err := debug.ListenAndServe(cfg.Debug.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("debug listener failed", "error", err)
			}
		}()
	}

	s := mcpserver.NewMCPServer("s3", version)
	tools.New(client).Add(s)

	slog.Info("s3mcp starting", "version", version, "region", client.Region)
	err = mcpserver.ServeStdio(s)

	if debug != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := debug.Shutdown(shutdownCtx); serr != nil {
			slog.Error("debug listener shutdown failed", "error", serr)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
