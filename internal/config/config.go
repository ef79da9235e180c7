// Package config loads service configuration from a YAML file and/or
// environment variables. Environment variables win over file values; every
// knob carries a sensible local default so the server starts with nothing
// but a DATABASE_URL.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env   string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTP  HTTPConfig  `yaml:"http"`
	DB    DBConfig    `yaml:"db"`
	Redis RedisConfig `yaml:"redis"`
	AI    AIConfig    `yaml:"ai"`
	Files FilesConfig `yaml:"files"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
}

// Addr returns the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

type RedisConfig struct {
	// Empty URL disables the AI response cache; the client falls back to an
	// in-process cache.
	URL string        `yaml:"url" env:"REDIS_URL" env-default:""`
	TTL time.Duration `yaml:"ttl" env:"AI_CACHE_TTL" env-default:"720h"`
}

type AIConfig struct {
	BaseURL string        `yaml:"base_url" env:"AI_SERVICE_URL" env-default:"http://ai-service:8000"`
	Timeout time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"60s"`
}

type FilesConfig struct {
	TemplatesDir string `yaml:"templates_dir" env:"TEMPLATES_DIR" env-default:"templates"`
	ThumbnailDir string `yaml:"thumbnail_dir" env:"THUMBNAIL_DIR" env-default:"thumbnails"`
	ChromePath   string `yaml:"chrome_path" env:"CHROME_PATH" env-default:""`
}

// Load reads configuration from path (optional) and the environment.
// Priority: explicit path, CONFIG_PATH, ./local.yaml, environment only.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}
