package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ConfigFileName is the name of the JSON config file looked up in the config directory.
const ConfigFileName = "simconv.cfg.json"

// MemoryConfig holds in-memory/JSON file storage backend settings
type MemoryConfig struct {
	OutputDir   string `json:"outputDir" mapstructure:"outputDir"`
	Compression string `json:"compression" mapstructure:"compression"` // none, gzip or zstd
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds Postgres storage backend settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// WebSocketConfig holds settings for streaming trajectories to a viewer server
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Postgres  PostgresConfig  `json:"postgres" mapstructure:"postgres"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// FilterConfig describes one filter of the conversion pipeline.
// Type is "everyNthTimestep" (uses N) or "transformSpatialAxes" (uses Axes).
type FilterConfig struct {
	Type string   `json:"type" mapstructure:"type"`
	N    int      `json:"n" mapstructure:"n"`
	Axes []string `json:"axes" mapstructure:"axes"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./simconvlogs")
	viper.SetDefault("workers", 4)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./trajectories")
	viper.SetDefault("storage.memory.compression", "none")
	viper.SetDefault("storage.sqlite.path", "simconv.db")

	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "simularium")
	viper.SetDefault("storage.postgres.sslmode", "disable")

	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/api")
	viper.SetDefault("storage.websocket.secret", "")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	var cfg StorageConfig
	_ = viper.UnmarshalKey("storage", &cfg)
	return cfg
}

// GetFilterConfigs returns the configured filter pipeline, in order.
func GetFilterConfigs() ([]FilterConfig, error) {
	var filters []FilterConfig
	if err := viper.UnmarshalKey("filters", &filters); err != nil {
		return nil, fmt.Errorf("error reading filters: %w", err)
	}
	return filters, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
