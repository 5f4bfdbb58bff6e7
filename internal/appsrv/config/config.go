package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ConfigParam is the explicit configuration object for the service. It is
// loaded once at startup and passed to the components that need it; nothing
// re-reads the file after initialization.
type ConfigParam struct {
	ServerPort         string   `toml:"server_port"`
	HandleCORS         bool     `toml:"handle_cors"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	DefaultMaxAppCount int      `toml:"default_max_app_count"`
	IdleVersionHours   int      `toml:"idle_version_hours"`
	SweepSchedule      string   `toml:"sweep_schedule"`
	DB                 DBParam  `toml:"db"`
}

// DBParam holds the PostgreSQL connection settings.
type DBParam struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	SSLMode  string `toml:"sslmode"`
}

// Dsn assembles the connection string for the pgx stdlib driver.
func (d DBParam) Dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

var cfg *ConfigParam

func Config() *ConfigParam {
	return cfg
}

func defaultConfig() *ConfigParam {
	return &ConfigParam{
		ServerPort:         "8270",
		HandleCORS:         true,
		CORSAllowedOrigins: []string{"http://localhost:8280"},
		DefaultMaxAppCount: 3,
		IdleVersionHours:   12,
		SweepSchedule:      "@every 1h",
		DB: DBParam{
			Host:    "localhost",
			Port:    5432,
			User:    "appcloud_api",
			DBName:  "appcloud",
			SSLMode: "disable",
		},
	}
}

// LoadConfig reads the TOML config file and makes it available through
// Config(). A missing file is a startup failure; unset keys fall back to
// defaults.
func LoadConfig(filename string) (*ConfigParam, error) {
	cp := defaultConfig()
	if filename == "" {
		cfg = cp
		return cfg, nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	if _, err := toml.Decode(string(content), cp); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	if cp.ServerPort == "" {
		return nil, errors.New("server port not defined")
	}
	cfg = cp
	return cfg, nil
}

func init() {
	// Default config so tests and tools work without a file on disk.
	cfg = defaultConfig()
}
