package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	journal "github.com/paintmcp/paintd/internal/journal"
	cobra "github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the command journal",
	Long: `List recorded command executions from the configured journal backend,
newest first. The journal is written by the daemon; this command reads
it directly, so it works while the daemon is running or stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		format, _ := cmd.Flags().GetString("format")

		j, err := journal.New(cfg.Journal)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			_ = j.Close()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := j.List(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list journal entries: %w", err)
		}

		if format == "json" {
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal entries: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No journal entries.")
			return nil
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  %-20s %-6s %8s",
				e.StartedAt.Local().Format("2006-01-02 15:04:05"),
				e.Command,
				e.Outcome,
				e.Duration.Round(time.Millisecond))
			if e.Outcome == journal.OutcomeError {
				line += fmt.Sprintf("  [%d] %s", e.ErrorCode, e.Message)
			}
			fmt.Println(line)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 50, "maximum entries to list")
	historyCmd.Flags().Int("offset", 0, "entries to skip")
	historyCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}
