package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/media"
	"github.com/nyc360/feed-engine/pkg/logger"
)

// Config is the BFF configuration loaded from configs/config.{APP_ENV}.yaml
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Media     media.Config    `yaml:"media"`
	Feed      feed.Options    `yaml:"feed"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	I18n      I18nConfig      `yaml:"i18n"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

// UpstreamConfig points at the NYC360 REST API
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiresIn time.Duration `yaml:"expires_in"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// WorkspaceConfig controls per-viewer state retention
type WorkspaceConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type I18nConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads the YAML file at path, expanding ${VAR} and ${VAR:-default}
// references from the environment, and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document; see Load
func Parse(data []byte) (*Config, error) {
	expanded := os.Expand(string(data), lookupEnv)

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func lookupEnv(name string) string {
	key, def, hasDefault := strings.Cut(name, ":-")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	if hasDefault {
		return def
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 30 * time.Second
	}
	if c.Media.RemoteBase == "" {
		c.Media.RemoteBase = c.Upstream.BaseURL
	}
	if c.Feed.FeaturedCount <= 0 {
		c.Feed.FeaturedCount = feed.DefaultFeaturedCount
	}
	if c.JWT.ExpiresIn <= 0 {
		c.JWT.ExpiresIn = time.Hour
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 120
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Workspace.IdleTTL <= 0 {
		c.Workspace.IdleTTL = 30 * time.Minute
	}
	if c.Workspace.SweepInterval <= 0 {
		c.Workspace.SweepInterval = time.Minute
	}
}

// Validate reports settings the service cannot start without
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("config: jwt.secret is required outside development")
	}
	return nil
}

// IsDevelopment reports whether the service runs locally
func (c *Config) IsDevelopment() bool {
	switch c.Env {
	case "local", "dev", "development", "test":
		return true
	}
	return false
}

// LogResolved prints the effective configuration without secrets
func LogResolved(c *Config) {
	logger.Info("config: env=%s port=%d mode=%s", c.Env, c.Server.Port, c.Server.Mode)
	logger.Info("config: upstream=%s timeout=%s", c.Upstream.BaseURL, c.Upstream.Timeout)
	logger.Info("config: media remote=%s local=%s", c.Media.RemoteBase, c.Media.LocalBase)
	logger.Info("config: feed featured=%d require_image=%v", c.Feed.FeaturedCount, c.Feed.RequireImage)
	logger.Info("config: redis enabled=%v addr=%s:%d", c.Redis.Enabled, c.Redis.Host, c.Redis.Port)
	logger.Info("config: jwt secret set=%v", c.JWT.Secret != "")
}
