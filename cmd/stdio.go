package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcp "github.com/metoro-io/mcp-golang"
	stdio "github.com/metoro-io/mcp-golang/transport/stdio"
	config "github.com/paintmcp/paintd/config"
	container "github.com/paintmcp/paintd/internal/container"
	logger "github.com/paintmcp/paintd/internal/logger"
	server "github.com/paintmcp/paintd/internal/server"
	cobra "github.com/spf13/cobra"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the MCP protocol over stdin/stdout",
	Long: `Serve the MCP protocol over stdin/stdout for editor and agent
embedding. The same tools as the HTTP transport are available; status
API and WebSocket endpoints are not.

Diagnostics go to stderr only. stdout carries protocol frames.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// The transport owns stdout; re-init logging explicitly against
		// stderr so a future logger default can never break the protocol
		// stream.
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logger.InitWithWriter(os.Stderr, verbose || cfg.Logging.Verbose)

		return startStdioServer(cfg)
	},
}

func init() {
	rootCmd.AddCommand(stdioCmd)
}

func startStdioServer(cfg *config.Config) error {
	services, err := container.NewServiceContainer(cfg, version, V)
	if err != nil {
		return err
	}
	defer cleanupServices(services)

	transport := stdio.NewStdioServerTransport()
	mcpServer := mcp.NewServer(transport)

	if err := server.RegisterTools(mcpServer, services.GetEngine()); err != nil {
		return fmt.Errorf("failed to register MCP tools: %w", err)
	}

	// Serve installs the protocol handlers and returns; the transport
	// reads stdin on its own goroutine.
	if err := mcpServer.Serve(); err != nil {
		return fmt.Errorf("failed to start stdio transport: %w", err)
	}

	logger.Info("MCP stdio transport ready")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	logger.Info("Shutting down", "signal", sig)
	return nil
}
