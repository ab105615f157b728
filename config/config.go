package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, read from a YAML file whose
// ${VAR} references are expanded from the environment (and .env, if present).
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	Exports  ExportConfig   `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// SessionConfig selects where session records live and how finalize calls
// are serialized. Store is "redis" or "memory"; Lock is "local" or "redis".
type SessionConfig struct {
	Store        string        `yaml:"store"`
	Lock         string        `yaml:"lock"`
	TTL          time.Duration `yaml:"ttl"`
	LockTTL      time.Duration `yaml:"lock_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "salon-booking",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:           "8080",
			MetricsEnabled: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			Path:   "./salon.db?_foreign_keys=on",
		},
		Session: SessionConfig{
			Store:   "memory",
			Lock:    "local",
			TTL:     24 * time.Hour,
			LockTTL: 10 * time.Second,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			PoolSize: 10,
		},
		Exports: ExportConfig{
			Path: "./exports",
		},
	}
}

// Load reads configPath on top of Default. An empty path or a missing .env
// file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expandedData, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Session.Store == "" {
		c.Session.Store = def.Session.Store
	}
	if c.Session.Lock == "" {
		c.Session.Lock = def.Session.Lock
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = def.Session.TTL
	}
	if c.Session.LockTTL <= 0 {
		c.Session.LockTTL = def.Session.LockTTL
	}
	if c.Exports.Path == "" {
		c.Exports.Path = def.Exports.Path
	}
}
