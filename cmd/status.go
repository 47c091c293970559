package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	cobra "github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of a running daemon",
	Long: `Query a running daemon's status endpoint and display:
- Session state and attached canvas
- Believed tool state
- Journal health
- Server uptime`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")

		statusURL := fmt.Sprintf("http://%s:%d/api/v1/status", cfg.Server.Host, cfg.Server.Port)
		client := &http.Client{Timeout: 5 * time.Second}

		resp, err := client.Get(statusURL)
		if err != nil {
			fmt.Printf("Daemon status: unreachable (%v)\n", err)
			fmt.Println("Start it with 'paintd serve'.")
			return nil
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read status response: %w", err)
		}

		if format == "json" {
			fmt.Println(string(body))
			return nil
		}

		var status struct {
			ServerVersion   string          `json:"server_version"`
			ProtocolVersion string          `json:"protocol_version"`
			SessionState    string          `json:"session_state"`
			PaintVersion    string          `json:"paint_version"`
			Commands        int             `json:"commands"`
			UptimeSeconds   int             `json:"uptime_seconds"`
			Journal         string          `json:"journal"`
			ToolState       json.RawMessage `json:"tool_state"`
			Canvas          *struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"canvas"`
		}
		if err := json.Unmarshal(body, &status); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		fmt.Println("Daemon status: running")
		fmt.Printf("Version: %s (protocol %s)\n", status.ServerVersion, status.ProtocolVersion)
		fmt.Printf("Session: %s\n", status.SessionState)
		if status.PaintVersion != "" {
			fmt.Printf("Paint: %s\n", status.PaintVersion)
		}
		if status.Canvas != nil {
			fmt.Printf("Canvas: %dx%d\n", status.Canvas.Width, status.Canvas.Height)
		}
		fmt.Printf("Commands: %d registered\n", status.Commands)
		fmt.Printf("Journal: %s\n", status.Journal)
		fmt.Printf("Uptime: %s\n", (time.Duration(status.UptimeSeconds) * time.Second).String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}
