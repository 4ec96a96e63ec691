package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Image     ImageConfig     `mapstructure:"image"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PredictorConfig holds the chat completion endpoint settings
type PredictorConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	APIKey               string        `mapstructure:"api_key"`
	Model                string        `mapstructure:"model"`
	MaxTokens            int           `mapstructure:"max_tokens"`
	Temperature          float64       `mapstructure:"temperature"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
}

// ImageConfig holds listing image retrieval settings
type ImageConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	Proxies   []string      `mapstructure:"proxies"`
	ProbeURL  string        `mapstructure:"probe_url"`
}

// StatsConfig selects where the category statistics table is loaded from
type StatsConfig struct {
	Source     string   `mapstructure:"source"`
	File       string   `mapstructure:"file"`
	RootLabels []string `mapstructure:"root_labels"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Table    string `mapstructure:"table"`
}

// DSN returns a libpq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	Key      string `mapstructure:"key"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StatsSourceFile     = "file"
	StatsSourcePostgres = "postgres"
	StatsSourceRedis    = "redis"
)

// Load loads configuration from an optional YAML file with environment variable overrides
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("predictor.api_key", "PREDICTOR_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("server.port", "SERVER_PORT", "AI_SERVER_PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Stats.Source {
	case StatsSourceFile, StatsSourcePostgres, StatsSourceRedis:
	default:
		return fmt.Errorf("unknown stats source %q", c.Stats.Source)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 7001)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("predictor.base_url", "https://api.openai.com/v1")
	v.SetDefault("predictor.api_key", "")
	v.SetDefault("predictor.model", "gpt-4o")
	v.SetDefault("predictor.max_tokens", 500)
	v.SetDefault("predictor.temperature", 0.3)
	v.SetDefault("predictor.timeout", 60*time.Second)
	v.SetDefault("predictor.max_requests_per_second", 0)

	v.SetDefault("image.timeout", 10*time.Second)
	v.SetDefault("image.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("image.max_bytes", 10<<20)
	v.SetDefault("image.proxies", []string{})
	v.SetDefault("image.probe_url", "https://static.mercdn.net")

	v.SetDefault("stats.source", StatsSourceFile)
	v.SetDefault("stats.file", "category_stats.json")
	v.SetDefault("stats.root_labels", []string{"ホーム", "Home"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "estimator")
	v.SetDefault("database.user", "estimator_user")
	v.SetDefault("database.password", "estimator_pass")
	v.SetDefault("database.table", "category_stats")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key", "estimator:category_stats")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
