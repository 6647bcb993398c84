package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	MarketData struct {
		BaseURL      string        `yaml:"base_url"`
		MarketSuffix string        `yaml:"market_suffix"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		BarsCacheTTL time.Duration `yaml:"bars_cache_ttl"`
	} `yaml:"marketdata"`
	Sentiment struct {
		TTL         time.Duration `yaml:"ttl"`
		DriftBucket time.Duration `yaml:"drift_bucket"`
	} `yaml:"sentiment"`
	Paper struct {
		InitialBalance float64 `yaml:"initial_balance"`
	} `yaml:"paper"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		MemoryMaxSize int `yaml:"memory_max_size"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.MarketData.MarketSuffix == "" {
		c.MarketData.MarketSuffix = ".us"
	}
	if c.MarketData.FetchTimeout == 0 {
		c.MarketData.FetchTimeout = 10 * time.Second
	}
	if c.MarketData.BarsCacheTTL == 0 {
		c.MarketData.BarsCacheTTL = 15 * time.Minute
	}
	if c.Sentiment.TTL == 0 {
		c.Sentiment.TTL = 60 * time.Second
	}
	if c.Sentiment.DriftBucket == 0 {
		c.Sentiment.DriftBucket = 5 * time.Minute
	}
	if c.Paper.InitialBalance == 0 {
		c.Paper.InitialBalance = 100_000
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("marketdata.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Paper.InitialBalance < 0 {
		return fmt.Errorf("paper.initial_balance must be >= 0")
	}
	return nil
}
