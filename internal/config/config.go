package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the host simulator configuration.
type Config struct {
	Station    int            `yaml:"station"`
	LogLevel   string         `yaml:"log_level"`
	EEPROMPath string         `yaml:"eeprom_path"`
	Serial     SerialConfig   `yaml:"serial"`
	Headless   HeadlessConfig `yaml:"headless"`
	Window     WindowConfig   `yaml:"window"`
}

// SerialConfig selects the command link. An empty port uses stdin/stdout.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// HeadlessConfig controls the windowless runner.
type HeadlessConfig struct {
	Hz    int    `yaml:"hz"`
	Ticks uint64 `yaml:"ticks"` // 0 runs forever
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Scale int `yaml:"scale"`
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "c201", "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Station:    1,
		LogLevel:   "info",
		EEPROMPath: "c201.eeprom",
		Serial: SerialConfig{
			Baud: 9600,
		},
		Headless: HeadlessConfig{
			Hz: 200,
		},
		Window: WindowConfig{
			Scale: 4,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A leading ~ in eeprom_path is expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.EEPROMPath = expandTilde(cfg.EEPROMPath)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Station < 1 || c.Station > 99 {
		return fmt.Errorf("station must be 1..99, got %d", c.Station)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be > 0")
	}

	if c.Headless.Hz <= 0 {
		return fmt.Errorf("headless.hz must be > 0")
	}

	if c.Window.Scale < 1 || c.Window.Scale > 16 {
		return fmt.Errorf("window.scale must be 1..16, got %d", c.Window.Scale)
	}

	return nil
}

// Level returns the slog level named by log_level.
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
