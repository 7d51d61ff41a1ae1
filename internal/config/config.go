// Package config loads courtmatch settings from a YAML file, a .env file and
// COURTMATCH_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Log        LogConfig        `yaml:"log"`
	Roster     RosterConfig     `yaml:"roster"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BaseURL         string        `yaml:"base_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds organizer credentials and session settings
type AuthConfig struct {
	// OrganizerPassword is plain text; PasswordHash (bcrypt) wins when both are set
	OrganizerPassword string        `yaml:"organizer_password"`
	PasswordHash      string        `yaml:"password_hash"`
	JWTSecret         string        `yaml:"jwt_secret"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
}

// SchedulingConfig bounds generation and mutation
type SchedulingConfig struct {
	MaxRounds   int           `yaml:"max_rounds"`
	MaxCourts   int           `yaml:"max_courts"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
	Seed        *int64        `yaml:"seed"`
}

// RateLimitConfig throttles mutating requests per client IP
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LogConfig selects level and output format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RosterConfig points at an optional external roster feed
type RosterConfig struct {
	FeedURL string        `yaml:"feed_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "courtmatch.db"},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		Scheduling: SchedulingConfig{
			MaxRounds:   30,
			MaxCourts:   16,
			LockTimeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		Log:       LogConfig{Level: "info", Format: "text"},
		Roster:    RosterConfig{Timeout: 10 * time.Second},
	}
}

// Load reads path (if it exists), then .env, then the environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env is optional; existing environment variables are not overridden
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("COURTMATCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COURTMATCH_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("COURTMATCH_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("COURTMATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("COURTMATCH_ORGANIZER_PASSWORD"); v != "" {
		cfg.Auth.OrganizerPassword = v
	}
	if v := os.Getenv("COURTMATCH_PASSWORD_HASH"); v != "" {
		cfg.Auth.PasswordHash = v
	}
	if v := os.Getenv("COURTMATCH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("COURTMATCH_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_SESSION_TTL: %w", err)
		}
		cfg.Auth.SessionTTL = d
	}
	if v := os.Getenv("COURTMATCH_MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_MAX_ROUNDS: %w", err)
		}
		cfg.Scheduling.MaxRounds = n
	}
	if v := os.Getenv("COURTMATCH_MAX_COURTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_MAX_COURTS: %w", err)
		}
		cfg.Scheduling.MaxCourts = n
	}
	if v := os.Getenv("COURTMATCH_LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_LOCK_TIMEOUT: %w", err)
		}
		cfg.Scheduling.LockTimeout = d
	}
	if v := os.Getenv("COURTMATCH_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_SEED: %w", err)
		}
		cfg.Scheduling.Seed = &n
	}
	if v := os.Getenv("COURTMATCH_RATE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_RATE_RPS: %w", err)
		}
		cfg.RateLimit.RPS = f
	}
	if v := os.Getenv("COURTMATCH_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid COURTMATCH_RATE_BURST: %w", err)
		}
		cfg.RateLimit.Burst = n
	}
	if v := os.Getenv("COURTMATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COURTMATCH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("COURTMATCH_ROSTER_FEED_URL"); v != "" {
		cfg.Roster.FeedURL = v
	}
	return nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Scheduling.MaxRounds <= 0 {
		return fmt.Errorf("scheduling.max_rounds must be positive")
	}
	if c.Scheduling.MaxCourts <= 0 {
		return fmt.Errorf("scheduling.max_courts must be positive")
	}
	if c.Scheduling.LockTimeout < 0 {
		return fmt.Errorf("scheduling.lock_timeout must not be negative")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
