// Package config loads the service configuration from a YAML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration unmarshals YAML scalars like "15s" or "48h" via
// time.ParseDuration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Seconds returns the duration in whole seconds.
func (d Duration) Seconds() int { return int(time.Duration(d) / time.Second) }

// Config is the full service configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// LogLevel is the logrus level name.
	LogLevel string `yaml:"log-level"`
	// LogFile enables rotated file logging when set.
	LogFile string `yaml:"log-file"`

	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Session  SessionConfig  `yaml:"session"`
	Admin    AdminConfig    `yaml:"admin"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// DatabaseConfig selects the local order database.
type DatabaseConfig struct {
	// DSN is either a PostgreSQL DSN or a SQLite file path.
	DSN string `yaml:"dsn"`
}

// RemoteConfig points at the legacy order API.
type RemoteConfig struct {
	// Endpoints maps calling origins (or bare hosts) to their legacy API URL.
	Endpoints map[string]string `yaml:"endpoints"`
	// Default is used when no origin matches.
	Default string `yaml:"default"`
	// Timeout bounds each legacy API call.
	Timeout Duration `yaml:"timeout"`
}

// SessionConfig selects the wizard session backend.
type SessionConfig struct {
	// RedisAddr enables the Redis store when set; empty means in-memory.
	RedisAddr     string   `yaml:"redis-addr"`
	RedisPassword string   `yaml:"redis-password"`
	RedisDB       int      `yaml:"redis-db"`
	TTL           Duration `yaml:"ttl"`
}

// AdminConfig secures the admin panel.
type AdminConfig struct {
	// PasswordHash is the bcrypt hash of the shared admin password.
	PasswordHash string `yaml:"password-hash"`
	// JWTSecret signs admin tokens.
	JWTSecret string `yaml:"jwt-secret"`
	// TokenExpiry bounds admin sessions.
	TokenExpiry Duration `yaml:"token-expiry"`
}

// AssetsConfig points at the template image host.
type AssetsConfig struct {
	// BaseURL is the root under which template families live.
	BaseURL string `yaml:"base-url"`
}

// Default values applied before the file is read.
func defaults() Config {
	return Config{
		Listen:   ":8317",
		LogLevel: "info",
		Database: DatabaseConfig{DSN: "data/mycards.db"},
		Remote: RemoteConfig{
			Timeout: Duration(15 * time.Second),
		},
		Session: SessionConfig{TTL: Duration(7 * 24 * time.Hour)},
		Admin:   AdminConfig{TokenExpiry: Duration(12 * time.Hour)},
		Assets:  AssetsConfig{BaseURL: "https://assets.mycards.cz/templates"},
	}
}

// ResolveConfigPath returns the config file path, honoring MYCARDS_CONFIG.
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := strings.TrimSpace(os.Getenv("MYCARDS_CONFIG")); env != "" {
		return env
	}
	return "config.yaml"
}

// Load reads and validates the configuration file. A missing file yields the
// defaults, so a bare binary still boots for development.
func Load(path string) (Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, cfg.validate()
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if errDecode := yaml.Unmarshal(raw, &cfg); errDecode != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, errDecode)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.validate()
}

// applyEnvOverrides lets secrets come from the environment instead of the
// file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MYCARDS_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
	if v := os.Getenv("MYCARDS_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("MYCARDS_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("MYCARDS_REDIS_ADDR"); v != "" {
		cfg.Session.RedisAddr = v
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database dsn is empty")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("config: remote timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive")
	}
	if c.Admin.TokenExpiry <= 0 {
		return fmt.Errorf("config: admin token expiry must be positive")
	}
	return nil
}
