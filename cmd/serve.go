package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/paintmcp/paintd/config"
	container "github.com/paintmcp/paintd/internal/container"
	logger "github.com/paintmcp/paintd/internal/logger"
	server "github.com/paintmcp/paintd/internal/server"
	cobra "github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the automation daemon with the HTTP MCP transport",
	Long: `Start the automation daemon. The daemon attaches to a Microsoft Paint
window on demand and executes drawing commands against it through
synthetic mouse and keyboard input.

The HTTP server provides:
  - MCP tool calls (one tool per protocol command)
  - Status, history and guide endpoints
  - A WebSocket stream of engine events

Commands execute strictly one at a time; concurrent callers queue on
the session lock or are rejected, depending on engine.busy_policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		port, _ := cmd.Flags().GetInt("port")
		host, _ := cmd.Flags().GetString("host")

		if port != 0 {
			cfg.Server.Port = port
		}
		if host != "" {
			cfg.Server.Host = host
		}

		return startDaemon(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "server port (default: 8765)")
	serveCmd.Flags().String("host", "", "server host (default: 127.0.0.1)")
}

func startDaemon(cfg *config.Config) error {
	services, err := container.NewServiceContainer(cfg, version, V)
	if err != nil {
		return err
	}
	defer cleanupServices(services)

	if err := checkJournalHealth(services); err != nil {
		logger.Warn("Journal health check failed", "error", err)
		fmt.Printf("Warning: journal backend may not be available: %v\n", err)
	}

	srv, err := server.New(cfg, services.GetEngine(), version)
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	if waitForServerReady(srv.Addr()) {
		printServerInfo(srv.Addr(), cfg)
	}

	return waitForShutdown(srv, serverErrors)
}

func cleanupServices(services *container.ServiceContainer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = services.Shutdown(ctx)
}

func checkJournalHealth(services *container.ServiceContainer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return services.GetJournal().Health(ctx)
}

func waitForServerReady(addr string) bool {
	healthURL := fmt.Sprintf("http://%s/health", addr)
	for i := 0; i < 20; i++ {
		time.Sleep(100 * time.Millisecond)
		resp, err := http.Get(healthURL)
		if err == nil {
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.Warn("Failed to close response body", "error", closeErr)
			}
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
	}
	return false
}

func printServerInfo(addr string, cfg *config.Config) {
	fmt.Printf("paintd listening on http://%s\n", addr)
	fmt.Printf("   Journal: %s\n", cfg.Journal.Type)
	fmt.Printf("\nAvailable endpoints:\n")
	fmt.Printf("   POST %-24s - MCP tool calls\n", cfg.Server.MCPPath)
	fmt.Printf("   GET  %-24s - Health check\n", "/health")
	fmt.Printf("   GET  %-24s - Session and tool state\n", "/api/v1/status")
	fmt.Printf("   GET  %-24s - Command journal\n", "/api/v1/history")
	fmt.Printf("   GET  %-24s - Operation guide\n", "/api/v1/guide")
	fmt.Printf("   GET  %-24s - Per-command guide topic\n", "/api/v1/guide/:command")
	if cfg.Server.EnableWebSocket {
		fmt.Printf("   WS   %-24s - Engine event stream\n", "/ws")
	}
	fmt.Printf("\n")
}

func waitForShutdown(srv *server.Server, serverErrors chan error) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("Shutting down", "signal", sig)
		fmt.Printf("\nShutting down gracefully...\n")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
