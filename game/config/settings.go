package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSettingsFile is read by the CLI when present
const DefaultSettingsFile = "ghostmaze.toml"

// Settings holds the server process settings
type Settings struct {
	Server ServerSettings `toml:"server"`
	Ngrok  NgrokSettings  `toml:"ngrok"`
}

// ServerSettings configures the HTTP server and session store
type ServerSettings struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	ConfigDir     string `toml:"config_dir"`
	DefaultConfig string `toml:"default_config"`
	LogLevel      string `toml:"log_level"`
	// SessionTTL is a Go duration string; idle sessions older than this are removed
	SessionTTL string `toml:"session_ttl"`
}

// NgrokSettings configures the optional public tunnel
type NgrokSettings struct {
	Enabled bool   `toml:"enabled"`
	Domain  string `toml:"domain"`
}

// DefaultSettings returns the settings used when no file is given
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host:          "0.0.0.0",
			Port:          8080,
			ConfigDir:     "configs",
			DefaultConfig: "classic",
			LogLevel:      "info",
			SessionTTL:    "1h",
		},
	}
}

// LoadSettings reads a TOML settings file over the defaults. A missing file
// yields the defaults when optional is true.
func LoadSettings(path string, optional bool) (Settings, error) {
	cfg := DefaultSettings()
	if err := loadToml(path, &cfg); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	cfg.applyDefaults()
	if err := ValidateSettings(cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Server.ConfigDir) == "" {
		s.Server.ConfigDir = defaults.Server.ConfigDir
	}
	if strings.TrimSpace(s.Server.DefaultConfig) == "" {
		s.Server.DefaultConfig = defaults.Server.DefaultConfig
	}
	if strings.TrimSpace(s.Server.LogLevel) == "" {
		s.Server.LogLevel = defaults.Server.LogLevel
	}
	if strings.TrimSpace(s.Server.SessionTTL) == "" {
		s.Server.SessionTTL = defaults.Server.SessionTTL
	}
}

// ValidateSettings checks ranges and formats
func ValidateSettings(s Settings) error {
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535, got %d", ErrInvalidConfig, s.Server.Port)
	}
	if _, err := time.ParseDuration(s.Server.SessionTTL); err != nil {
		return fmt.Errorf("%w: server.session_ttl: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(s.Server.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: server.log_level %q is not a log level", ErrInvalidConfig, s.Server.LogLevel)
	}
	if s.Ngrok.Enabled && strings.TrimSpace(s.Ngrok.Domain) == "" {
		return fmt.Errorf("%w: ngrok.domain is required when ngrok is enabled", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the listen address
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TTL returns the parsed session TTL, or zero if it does not parse
func (s ServerSettings) TTL() time.Duration {
	d, _ := time.ParseDuration(s.SessionTTL)
	return d
}
