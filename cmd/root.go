package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	config "github.com/paintmcp/paintd/config"
	logger "github.com/paintmcp/paintd/internal/logger"
	cobra "github.com/spf13/cobra"
	viper "github.com/spf13/viper"
	gotenv "github.com/subosito/gotenv"
	yaml "gopkg.in/yaml.v3"
)

// V is the process-wide Viper instance backing config resolution
var V *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "paintd",
	Short: "Automation daemon for Microsoft Paint",
	Long: `paintd drives an unmodified Microsoft Paint window through synthetic
mouse and keyboard input, exposing drawing, canvas and image commands
as MCP tools over HTTP or stdio.

Start the daemon with 'paintd serve', drive it by hand with
'paintd console', or read the operation guide with 'paintd guide'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("paintd drives Microsoft Paint through synthetic input.")
		fmt.Println("Use 'paintd serve' to start the daemon or --help to see available commands.")
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

// initConfig seeds Viper with the defaults, merges the config file over
// them and enables PAINTD_* environment overrides. Seeding the defaults
// first makes every key known to Viper, so environment variables apply
// even when the config file is missing.
func initConfig() {
	_ = gotenv.Load()

	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	V = viper.New()
	V.SetConfigType("yaml")

	defaults, err := yaml.Marshal(config.DefaultConfig())
	if err == nil {
		_ = V.ReadConfig(bytes.NewReader(defaults))
	}

	V.SetConfigFile(configPath)
	if err := V.MergeInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "failed to load config from %s: %v\n", configPath, err)
			os.Exit(1)
		}
	}

	V.SetEnvPrefix("PAINTD")
	V.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	V.AutomaticEnv()

	if !verbose {
		verbose = V.GetBool("logging.verbose")
	}
	logger.Init(verbose)
}

// getConfigFromViper materializes the Config tree from the loaded Viper
// state: file values over defaults, environment variables over both
func getConfigFromViper() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if V == nil {
		return cfg, nil
	}
	if err := V.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
