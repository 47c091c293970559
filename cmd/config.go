package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	config "github.com/paintmcp/paintd/config"
	utils "github.com/paintmcp/paintd/internal/utils"
	cobra "github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage daemon configuration",
	Long:  `Manage the daemon configuration settings.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new project configuration",
	Long: `Initialize a new .paintd/config.yaml configuration file in the current
directory. This creates a local project configuration with default
settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.DefaultConfigPath

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			if !overwrite {
				return fmt.Errorf("configuration file %s already exists (use --overwrite to replace)", configPath)
			}
		}

		cfg := config.DefaultConfig()

		if err := cfg.SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		fmt.Printf("Successfully created %s\n", configPath)
		fmt.Println("You can now customize the configuration for this project.")

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the effective configuration after merging defaults, the config
file and PAINTD_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")

		if format == "json" {
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dotted key and write the full config
file back, for example:

  paintd config set server.port 9000
  paintd config set journal.type memory
  paintd config set input.rate_limit.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if V == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		key, value := args[0], args[1]
		V.Set(key, parseConfigValue(value))

		if err := utils.WriteViperConfigWithIndent(V, 2); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		fmt.Printf("Configuration saved to: %s\n", V.ConfigFileUsed())
		return nil
	},
}

// parseConfigValue keeps numbers and booleans typed so the written YAML
// round-trips into the Config tree
func parseConfigValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().Bool("overwrite", false, "Overwrite existing configuration file")
	configShowCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")

	rootCmd.AddCommand(configCmd)
}
