package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/paintmcp/paintd/internal/logger"
)

// DefaultConfigPath is the project-local config file location
const DefaultConfigPath = ".paintd/config.yaml"

// Config represents the daemon configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Dialogs DialogsConfig `yaml:"dialogs" mapstructure:"dialogs"`
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`
	Journal JournalConfig `yaml:"journal" mapstructure:"journal"`
	Guard   GuardConfig   `yaml:"guard" mapstructure:"guard"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP transport settings
type ServerConfig struct {
	Host                string   `yaml:"host" mapstructure:"host"`
	Port                int      `yaml:"port" mapstructure:"port"`
	MCPPath             string   `yaml:"mcp_path" mapstructure:"mcp_path"`
	AllowedOrigins      []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	EnableWebSocket     bool     `yaml:"enable_websocket" mapstructure:"enable_websocket"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeoutSeconds int      `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeoutSeconds  int      `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// EngineConfig contains command dispatch settings
type EngineConfig struct {
	// BusyPolicy is "wait" (queue on the session lock) or "reject"
	BusyPolicy            string `yaml:"busy_policy" mapstructure:"busy_policy"`
	CommandTimeoutSeconds int    `yaml:"command_timeout" mapstructure:"command_timeout"`
	BatchTimeoutSeconds   int    `yaml:"batch_timeout" mapstructure:"batch_timeout"`
}

// DisplayConfig selects the display backend
type DisplayConfig struct {
	// Backend is "auto", "native" or "x11"
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Display is the backend-specific display name (e.g. ":0" for X11)
	Display string `yaml:"display" mapstructure:"display"`
}

// InputConfig contains synthetic input pacing settings
type InputConfig struct {
	MinEventGapMs   int             `yaml:"min_event_gap_ms" mapstructure:"min_event_gap_ms"`
	ClickHoldMs     int             `yaml:"click_hold_ms" mapstructure:"click_hold_ms"`
	DragSteps       int             `yaml:"drag_steps" mapstructure:"drag_steps"`
	DragStepPauseMs int             `yaml:"drag_step_pause_ms" mapstructure:"drag_step_pause_ms"`
	StrokeSettleMs  int             `yaml:"stroke_settle_ms" mapstructure:"stroke_settle_ms"`
	TypeDelayMs     int             `yaml:"type_delay_ms" mapstructure:"type_delay_ms"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig bounds synthetic input event frequency
type RateLimitConfig struct {
	Enabled             bool `yaml:"enabled" mapstructure:"enabled"`
	MaxActionsPerWindow int  `yaml:"max_actions_per_window" mapstructure:"max_actions_per_window"`
	WindowSeconds       int  `yaml:"window_seconds" mapstructure:"window_seconds"`
}

// SessionConfig contains target window lifecycle settings
type SessionConfig struct {
	ProcessName          string   `yaml:"process_name" mapstructure:"process_name"`
	LaunchCommand        []string `yaml:"launch_command" mapstructure:"launch_command"`
	WindowClasses        []string `yaml:"window_classes" mapstructure:"window_classes"`
	WindowTitles         []string `yaml:"window_titles" mapstructure:"window_titles"`
	TitleExcludes        []string `yaml:"title_excludes" mapstructure:"title_excludes"`
	LaunchInitialWaitMs  int      `yaml:"launch_initial_wait_ms" mapstructure:"launch_initial_wait_ms"`
	LaunchPollIntervalMs int      `yaml:"launch_poll_interval_ms" mapstructure:"launch_poll_interval_ms"`
	LaunchPollMax        int      `yaml:"launch_poll_max" mapstructure:"launch_poll_max"`
	ActivationSettleMs   []int    `yaml:"activation_settle_ms" mapstructure:"activation_settle_ms"`
	RaiseFallbackMs      int      `yaml:"raise_fallback_ms" mapstructure:"raise_fallback_ms"`
	VerifyDelayMs        int      `yaml:"verify_delay_ms" mapstructure:"verify_delay_ms"`
	MaximizeOnConnect    bool     `yaml:"maximize_on_connect" mapstructure:"maximize_on_connect"`
}

// DialogsConfig contains modal dialog interaction settings
type DialogsConfig struct {
	VisibilityTimeoutMs int `yaml:"visibility_timeout_ms" mapstructure:"visibility_timeout_ms"`
	PollIntervalMs      int `yaml:"poll_interval_ms" mapstructure:"poll_interval_ms"`
	SettleMs            int `yaml:"settle_ms" mapstructure:"settle_ms"`
}

// PlannerConfig contains image recreation settings
type PlannerConfig struct {
	MaxPrimitives         int `yaml:"max_primitives" mapstructure:"max_primitives"`
	MaxInputDimension     int `yaml:"max_input_dimension" mapstructure:"max_input_dimension"`
	DecodeCacheTTLSeconds int `yaml:"decode_cache_ttl" mapstructure:"decode_cache_ttl"`
}

// JournalConfig selects and configures the operation journal backend
type JournalConfig struct {
	Enabled    bool                  `yaml:"enabled" mapstructure:"enabled"`
	Type       string                `yaml:"type" mapstructure:"type"`
	MaxEntries int                   `yaml:"max_entries" mapstructure:"max_entries"`
	SQLite     SQLiteJournalConfig   `yaml:"sqlite" mapstructure:"sqlite"`
	Postgres   PostgresJournalConfig `yaml:"postgres" mapstructure:"postgres"`
	Redis      RedisJournalConfig    `yaml:"redis" mapstructure:"redis"`
}

// SQLiteJournalConfig contains SQLite journal settings
type SQLiteJournalConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PostgresJournalConfig contains Postgres journal settings
type PostgresJournalConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// RedisJournalConfig contains Redis journal settings
type RedisJournalConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// GuardConfig restricts the paths save and fetch may touch
type GuardConfig struct {
	Enabled      bool     `yaml:"enabled" mapstructure:"enabled"`
	Root         string   `yaml:"root" mapstructure:"root"`
	DenyPatterns []string `yaml:"deny_patterns" mapstructure:"deny_patterns"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8765,
			MCPPath:             "/mcp",
			AllowedOrigins:      []string{"*"},
			EnableWebSocket:     true,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 600, // image recreation jobs run long
			IdleTimeoutSeconds:  120,
		},
		Engine: EngineConfig{
			BusyPolicy:            "wait",
			CommandTimeoutSeconds: 120,
			BatchTimeoutSeconds:   1800,
		},
		Display: DisplayConfig{
			Backend: "auto",
			Display: "",
		},
		Input: InputConfig{
			MinEventGapMs:   5,
			ClickHoldMs:     10,
			DragSteps:       10,
			DragStepPauseMs: 50,
			StrokeSettleMs:  300,
			TypeDelayMs:     20,
			RateLimit: RateLimitConfig{
				Enabled:             false,
				MaxActionsPerWindow: 600,
				WindowSeconds:       60,
			},
		},
		Session: SessionConfig{
			ProcessName:          "mspaint",
			LaunchCommand:        []string{"mspaint.exe"},
			WindowClasses:        []string{"MSPaintApp"},
			WindowTitles:         []string{"Paint", "- Paint"},
			TitleExcludes:        []string{},
			LaunchInitialWaitMs:  3000,
			LaunchPollIntervalMs: 1000,
			LaunchPollMax:        20,
			ActivationSettleMs:   []int{200, 300, 500},
			RaiseFallbackMs:      500,
			VerifyDelayMs:        200,
			MaximizeOnConnect:    true,
		},
		Dialogs: DialogsConfig{
			VisibilityTimeoutMs: 2000,
			PollIntervalMs:      100,
			SettleMs:            500,
		},
		Planner: PlannerConfig{
			MaxPrimitives:         5000,
			MaxInputDimension:     1024,
			DecodeCacheTTLSeconds: 300, // 5 minutes
		},
		Journal: JournalConfig{
			Enabled:    true,
			Type:       "sqlite",
			MaxEntries: 10000,
			SQLite: SQLiteJournalConfig{
				Path: ".paintd/journal.db",
			},
			Postgres: PostgresJournalConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "paintd",
				Username: "paintd",
				Password: "",
				SSLMode:  "disable",
			},
			Redis: RedisJournalConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
				TTLHours: 24,
			},
		},
		Guard: GuardConfig{
			Enabled: true,
			Root:    "",
			DenyPatterns: []string{
				"*.exe", "*.dll", "*.bat", "*.cmd", "*.ps1",
			},
		},
		Logging: LoggingConfig{
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		logger.Debug("Using default config path", "path", configPath)
	} else {
		logger.Debug("Using custom config path", "path", configPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("Config file not found, using default configuration", "path", configPath)
		return DefaultConfig(), nil
	}

	logger.Debug("Loading config file", "path", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Error("Failed to parse config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	logger.Debug("Successfully loaded config", "path", configPath, "journal_type", config.Journal.Type)
	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		logger.Debug("Using default config path for save", "path", configPath)
	} else {
		logger.Debug("Using custom config path for save", "path", configPath)
	}

	dir := filepath.Dir(configPath)
	logger.Debug("Creating config directory", "dir", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed to create config directory", "dir", dir, "error", err)
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	defer func() {
		if err := encoder.Close(); err != nil {
			logger.Error("Failed to close YAML encoder", "error", err)
		}
	}()

	if err := encoder.Encode(c); err != nil {
		logger.Error("Failed to marshal config", "error", err)
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	data := buf.Bytes()

	logger.Debug("Writing config file", "path", configPath, "size", len(data))
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file", "path", configPath, "error", err)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Successfully saved config", "path", configPath)
	return nil
}

func getDefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return DefaultConfigPath
	}
	return filepath.Join(wd, DefaultConfigPath)
}
