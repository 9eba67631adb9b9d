package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/distclust/internal/config"
	"github.com/ludo-technologies/distclust/internal/logging"
	"github.com/ludo-technologies/distclust/internal/version"
	"github.com/ludo-technologies/distclust/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const serverName = "distclust"

func main() {
	// stdout carries JSON-RPC, so logs go to stderr
	logger := logging.NewJSON(os.Getenv(config.EnvVar("VERBOSE")) != "", os.Stderr)
	defer func() { _ = logger.Sync() }()

	configPath := os.Getenv(config.EnvVar("CONFIG"))
	if _, err := config.LoadConfig(configPath); err != nil {
		logger.Warn("configuration not usable, tools will need explicit parameters",
			zap.String("path", configPath), zap.Error(err))
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	deps := mcp.NewDependencies(configPath, logger)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	logger.Info("starting MCP server",
		zap.String("name", serverName),
		zap.String("version", version.Short()),
		zap.Strings("tools", []string{mcp.ToolClusterDistances}))

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
