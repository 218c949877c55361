// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend"` // sqlite | redis | memory
	Path    string      `yaml:"path"`    // sqlite file path
	Redis   RedisConfig `yaml:"redis"`
}

type ModelEntry struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"` // gemini | gemini-sdk | openai | noop
	BaseURL         string        `yaml:"base_url"`
	DefaultModel    string        `yaml:"default_model"`
	Timeout         time.Duration `yaml:"timeout"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent AI calls
	Models          []ModelEntry  `yaml:"models"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	AI     AIConfig     `yaml:"ai"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			// No config file is fine for a local app; defaults apply.
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Defaults returns a config with every field at its documented default.
func Defaults() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8390
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "pishoo.db"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	// ai.base_url stays empty by default; each adapter knows its own host.
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-1.5-flash"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30 * time.Second
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 4
	}
	if len(cfg.AI.Models) == 0 {
		cfg.AI.Models = []ModelEntry{
			{Name: "gemini-1.5-flash", Label: "Gemini 1.5 Flash", Description: "Fast and efficient"},
			{Name: "gemini-1.5-pro", Label: "Gemini 1.5 Pro", Description: "Most capable"},
			{Name: "gemini-1.0-pro", Label: "Gemini 1.0 Pro", Description: "Reliable and stable"},
		}
	}
}
