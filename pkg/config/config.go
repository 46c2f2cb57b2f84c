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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		AlertTopic   string   `yaml:"alert_topic"`
		BarTopic     string   `yaml:"bar_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Engine struct {
		RiskFreeRate float64       `yaml:"risk_free_rate"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		Valuation    struct {
			ProjectionYears   int     `yaml:"projection_years"`
			EquityRiskPremium float64 `yaml:"equity_risk_premium"`
			TaxRate           float64 `yaml:"tax_rate"`
			TerminalGrowth    float64 `yaml:"terminal_growth"`
			ExitMultiple      float64 `yaml:"exit_multiple"`
			MinWACC           float64 `yaml:"min_wacc"`
		} `yaml:"valuation"`
		Scoring struct {
			Fundamental float64 `yaml:"fundamental"`
			Valuation   float64 `yaml:"valuation"`
			Technical   float64 `yaml:"technical"`
			Risk        float64 `yaml:"risk"`
			Sentiment   float64 `yaml:"sentiment"`
			StrongBuy   float64 `yaml:"strong_buy_min"`
			Buy         float64 `yaml:"buy_min"`
			Hold        float64 `yaml:"hold_min"`
		} `yaml:"scoring"`
	} `yaml:"engine"`
	Scan struct {
		Workers           int           `yaml:"workers"`
		Timeout           time.Duration `yaml:"timeout"`
		RateCapacity      float64       `yaml:"rate_capacity"`
		RatePerSecond     float64       `yaml:"rate_per_second"`
		RSIBelow          float64       `yaml:"rsi_below"`
		DistanceBelow     float64       `yaml:"distance_below"`
		MinBullishSignals int           `yaml:"min_bullish_signals"`
		BollingerBelow    float64       `yaml:"bollinger_below"`
	} `yaml:"scan"`
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

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_ALERT_TOPIC"); v != "" {
		c.Kafka.AlertTopic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	w := c.Engine.Scoring
	if sum := w.Fundamental + w.Valuation + w.Technical + w.Risk + w.Sentiment; sum > 0 && (sum < 0.999 || sum > 1.001) {
		return fmt.Errorf("engine.scoring weights must sum to 1, got %.3f", sum)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers cannot be negative")
	}
	return nil
}
