package config

import (
	"fmt"
	"os"
	"strings"
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
	Market struct {
		Provider string        `yaml:"provider"` // "brapi" or "clickhouse"
		BaseURL  string        `yaml:"base_url"`
		APIToken string        `yaml:"api_token"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Stream   struct {
			Enabled        bool          `yaml:"enabled"`
			URL            string        `yaml:"url"`
			Symbols        []string      `yaml:"symbols"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"stream"`
	} `yaml:"market"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Engine struct {
		ForwardWindow  int           `yaml:"forward_window"`
		RiskATRMult    float64       `yaml:"risk_atr_multiple"`
		BacktestTTL    time.Duration `yaml:"backtest_ttl"`
		BacktestMaxKey int           `yaml:"backtest_max_entries"`
	} `yaml:"engine"`
	Cache struct {
		ResponseTTL time.Duration `yaml:"response_ttl"`
		MemorySize  int           `yaml:"memory_size"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Signals struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"signals"`
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

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables, so deployments can keep secrets out of the file.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BRAPI_TOKEN"); v != "" {
		c.Market.APIToken = v
	}
	if v := os.Getenv("MARKET_PROVIDER"); v != "" {
		c.Market.Provider = v
	}
	if v := os.Getenv("STREAM_SYMBOLS"); v != "" {
		c.Market.Stream.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Signals.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SIGNALS_TOPIC"); v != "" {
		c.Signals.Topic = v
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Market.Provider {
	case "brapi", "clickhouse":
	case "":
		return fmt.Errorf("market.provider is required")
	default:
		return fmt.Errorf("market.provider must be 'brapi' or 'clickhouse', got '%s'", c.Market.Provider)
	}
	if c.Market.Provider == "brapi" && c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url is required for brapi provider")
	}
	if c.Market.Provider == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for clickhouse provider")
	}
	if c.Signals.Enabled && len(c.Signals.Brokers) == 0 {
		return fmt.Errorf("signals.brokers cannot be empty when signals are enabled")
	}
	if c.Market.Stream.Enabled && c.Market.Stream.URL == "" {
		return fmt.Errorf("market.stream.url is required when the stream is enabled")
	}
	return nil
}
