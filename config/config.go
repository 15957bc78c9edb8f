package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	PublicBaseURL   string        `yaml:"public_base_url"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                    string `yaml:"driver"`
	DSN                       string `yaml:"dsn"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
	Debug                     bool   `yaml:"debug"`
}

// AuthConfig controls host token issuance.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTLMinutes int           `yaml:"token_ttl_minutes"`
	TokenTTL        time.Duration `yaml:"-"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
}

// SchedulingConfig holds slot resolution settings.
type SchedulingConfig struct {
	SlotMinutes int           `yaml:"slot_minutes"`
	Granularity time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path. A .env file in the
// working directory, if any, is loaded first and selected variables
// override the YAML values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env file: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("ignoring invalid SERVER_PORT %q", v)
		}
	}
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return errors.New("database.driver must be postgres or sqlite")
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (or JWT_SECRET) must be set")
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 24 * 60
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute

	if cfg.Scheduling.SlotMinutes <= 0 {
		cfg.Scheduling.SlotMinutes = 30
	}
	cfg.Scheduling.Granularity = time.Duration(cfg.Scheduling.SlotMinutes) * time.Minute

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}
	return nil
}
