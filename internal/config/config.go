package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Detector DetectorConfig `mapstructure:"detector"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UploadDir      string        `mapstructure:"upload_dir"`
}

// DetectorConfig holds detection engine configuration.
type DetectorConfig struct {
	Host                string        `mapstructure:"host"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// LLMConfig holds language engine configuration.
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// ChatConfig holds chat session configuration.
type ChatConfig struct {
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	FallbackWordDelay time.Duration `mapstructure:"fallback_word_delay"`
}

// RedisConfig holds redis configuration. Redis is optional; an empty
// host disables the recipe cache and rate limiter.
type RedisConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	Password       string          `mapstructure:"password"`
	DB             int             `mapstructure:"db"`
	RecipeCacheTTL time.Duration   `mapstructure:"recipe_cache_ttl"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds rate limiter configuration.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the redis connection address.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether redis is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads configuration from the config file and environment.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		// Defaults plus environment are a complete configuration.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	// Zero write timeout keeps long-lived answer streams alive.
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.upload_dir", "uploads")

	v.SetDefault("detector.host", "http://localhost:8000")
	v.SetDefault("detector.confidence_threshold", 0.3)
	v.SetDefault("detector.timeout", "30s")

	v.SetDefault("llm.base_url", "http://localhost:1234/v1")
	v.SetDefault("llm.api_key", "lm-studio")
	v.SetDefault("llm.model", "google/gemma-3-1b")
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("chat.session_ttl", "2h")
	v.SetDefault("chat.sweep_interval", "5m")
	v.SetDefault("chat.fallback_word_delay", "50ms")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.recipe_cache_ttl", "1h")
	v.SetDefault("redis.rate_limit.requests_per_minute", 60)
	v.SetDefault("redis.rate_limit.burst", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvs(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("detector.host", "DETECTOR_HOST")
	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
}
