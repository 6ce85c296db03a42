package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

// AuthConfig holds the shared secret used to validate bearer tokens
// issued by the external auth service.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// LLMConfig configures the analysis provider.
// Provider is "openrouter" or "stub"; stub performs no I/O and is the
// default when no API key is configured.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type AlertsConfig struct {
	SMTP            SMTPConfig    `mapstructure:"smtp"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	CommitRetries   int           `mapstructure:"commit_retries"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/wellmind")
	}

	// Environment variables
	v.SetEnvPrefix("WELLMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.host", "WELLMIND_DATABASE_HOST")
	v.BindEnv("database.port", "WELLMIND_DATABASE_PORT")
	v.BindEnv("database.user", "WELLMIND_DATABASE_USER")
	v.BindEnv("database.password", "WELLMIND_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "WELLMIND_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "WELLMIND_DATABASE_SSLMODE")
	v.BindEnv("redis.enabled", "WELLMIND_REDIS_ENABLED")
	v.BindEnv("redis.host", "WELLMIND_REDIS_HOST")
	v.BindEnv("redis.port", "WELLMIND_REDIS_PORT")
	v.BindEnv("redis.password", "WELLMIND_REDIS_PASSWORD")
	v.BindEnv("nats.enabled", "WELLMIND_NATS_ENABLED")
	v.BindEnv("llm.provider", "WELLMIND_LLM_PROVIDER")
	v.BindEnv("llm.api_key", "WELLMIND_LLM_API_KEY")
	v.BindEnv("llm.model", "WELLMIND_LLM_MODEL")
	v.BindEnv("alerts.smtp.host", "WELLMIND_ALERTS_SMTP_HOST")
	v.BindEnv("alerts.smtp.port", "WELLMIND_ALERTS_SMTP_PORT")
	v.BindEnv("alerts.smtp.username", "WELLMIND_ALERTS_SMTP_USERNAME")
	v.BindEnv("alerts.smtp.password", "WELLMIND_ALERTS_SMTP_PASSWORD")
	v.BindEnv("auth.secret", "WELLMIND_AUTH_SECRET")
	v.BindEnv("app.environment", "WELLMIND_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "stub"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.Alerts.RateLimitWindow == 0 {
		cfg.Alerts.RateLimitWindow = 24 * time.Hour
	}
	if cfg.Alerts.CommitRetries == 0 {
		cfg.Alerts.CommitRetries = 3
	}
	if cfg.Dashboard.CacheTTL == 0 {
		cfg.Dashboard.CacheTTL = 5 * time.Minute
	}
}
