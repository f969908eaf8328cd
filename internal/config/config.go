// Package config loads the YAML configuration shared by the server and
// the terminal client. The file is found through CONFIG_PATH or, for the
// server, the --config flag; every key can be overridden from the
// environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the whole configuration file. Keys marked env-required stop
// the process at boot when missing.
type Config struct {
	// Env picks the log format: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the SQLite database file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	HTTPServer   `yaml:"http_server"`
	QueryService `yaml:"query_service"`
	Dashboard    `yaml:"dashboard"`
}

// HTTPServer is the http_server section.
type HTTPServer struct {
	Addr         string        `yaml:"address"       env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"HTTP_SERVER_READ_TIMEOUT"  env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env:"HTTP_SERVER_IDLE_TIMEOUT"  env-default:"60s"`
}

// QueryService tunes the record query service.
type QueryService struct {
	// LegacyCountKey makes group-by rows carry their count under "__count"
	// instead of "<field>_count", like older hosts do.
	LegacyCountKey bool `yaml:"legacy_count_key" env:"QUERY_LEGACY_COUNT_KEY" env-default:"false"`
}

// Dashboard holds settings for the dashboard and its terminal client.
type Dashboard struct {
	// RecentLimit is how many recent admissions the dashboard lists.
	RecentLimit int `yaml:"recent_limit" env:"DASHBOARD_RECENT_LIMIT" env-default:"5"`

	// ServerURL is where the terminal client finds the query service.
	// Empty means the client opens StoragePath directly.
	ServerURL string `yaml:"server_url" env:"DASHBOARD_SERVER_URL"`

	// NotificationTTL is how long a non-sticky notification stays visible.
	NotificationTTL time.Duration `yaml:"notification_ttl" env:"DASHBOARD_NOTIFICATION_TTL" env-default:"4s"`

	// LogPath is where the terminal client writes its log; stdout belongs
	// to the UI.
	LogPath string `yaml:"log_path" env:"DASHBOARD_LOG_PATH" env-default:"student-dashboard.log"`
}

// MustLoad returns the server configuration or exits. CONFIG_PATH wins
// over the --config flag.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

// Load reads the config file at path. Unlike MustLoad it reports problems
// as errors, which is what the terminal client's commands need.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.Dashboard.RecentLimit <= 0 {
		return nil, fmt.Errorf("dashboard.recent_limit must be positive, got %d", cfg.Dashboard.RecentLimit)
	}
	return &cfg, nil
}
