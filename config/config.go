package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Retention RetentionConfig `mapstructure:"retention"`
	Document  DocumentConfig  `mapstructure:"document"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig selects and tunes the generation engine
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"` // openai, huggingface
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxNewTokens  int           `mapstructure:"max_new_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"` // generations in flight; 1 = single-flight
}

// ChatConfig bounds the conversation context window
type ChatConfig struct {
	MaxExchanges      int `mapstructure:"max_exchanges"`       // prior turns injected as context
	PerMessageChars   int `mapstructure:"per_message_chars"`   // truncation applied to each message
	ContextCharBudget int `mapstructure:"context_char_budget"` // hard cap on the whole context block
}

// StorageConfig contains history persistence settings
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // postgres, redis, or empty for auto
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RetentionConfig drives the history pruning sweeper
type RetentionConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Cron    string        `mapstructure:"cron"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

// DocumentConfig bounds uploaded-document preprocessing
type DocumentConfig struct {
	MaxChars    int `mapstructure:"max_chars"`     // framing cap before excerpt selection kicks in
	ChunkChars  int `mapstructure:"chunk_chars"`   // chunk size for the excerpt index
	MaxUploadMB int `mapstructure:"max_upload_mb"` // upstream validation limit
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DSN returns the Postgres connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("nino_config")
		viper.SetConfigType("json")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("NINO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional; defaults plus env cover a full setup
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "30s")

	viper.SetDefault("server.address", ":8000")

	viper.SetDefault("llm.provider", "huggingface")
	viper.SetDefault("llm.model", "Jurema-br/Jurema-7B")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.max_new_tokens", 1024)
	viper.SetDefault("llm.timeout", "3m")
	viper.SetDefault("llm.max_concurrent", 1)

	viper.SetDefault("chat.max_exchanges", 3)
	viper.SetDefault("chat.per_message_chars", 400)
	viper.SetDefault("chat.context_char_budget", 4000)

	viper.SetDefault("storage.driver", "")
	viper.SetDefault("storage.postgres.host", "")
	viper.SetDefault("storage.postgres.port", 5432)
	viper.SetDefault("storage.postgres.sslmode", "disable")
	viper.SetDefault("storage.postgres.timeout", "5s")
	viper.SetDefault("storage.redis.host", "localhost")
	viper.SetDefault("storage.redis.port", 6379)
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.timeout", "5s")

	viper.SetDefault("retention.enabled", false)
	viper.SetDefault("retention.cron", "0 4 * * *")
	viper.SetDefault("retention.max_age", "2160h") // 90 days

	viper.SetDefault("document.max_chars", 8000)
	viper.SetDefault("document.chunk_chars", 1200)
	viper.SetDefault("document.max_upload_mb", 10)

	viper.SetDefault("telemetry.enabled", true)
}

// overrideFromEnv overrides configuration with environment variables
func overrideFromEnv() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("llm.api_key", apiKey)
	}
	if token := os.Getenv("HUGGINGFACE_HUB_TOKEN"); token != "" && viper.GetString("llm.provider") == "huggingface" {
		viper.Set("llm.api_key", token)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		viper.Set("storage.postgres.url", url)
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		viper.Set("storage.postgres.host", host)
	}
	if port := os.Getenv("POSTGRES_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("storage.postgres.port", p)
		}
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		viper.Set("storage.postgres.user", user)
	}
	if pass := os.Getenv("POSTGRES_PASSWORD"); pass != "" {
		viper.Set("storage.postgres.password", pass)
	}
	if db := os.Getenv("POSTGRES_DB"); db != "" {
		viper.Set("storage.postgres.dbname", db)
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		viper.Set("storage.redis.host", host)
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("storage.redis.port", p)
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		viper.Set("storage.redis.password", password)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.LLM.Provider {
	case "openai", "huggingface":
	default:
		return fmt.Errorf("unsupported llm provider: %s", config.LLM.Provider)
	}
	if config.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if config.LLM.MaxNewTokens <= 0 {
		return fmt.Errorf("llm.max_new_tokens must be > 0")
	}
	if config.LLM.MaxConcurrent <= 0 {
		return fmt.Errorf("llm.max_concurrent must be > 0")
	}
	if config.Chat.MaxExchanges <= 0 {
		return fmt.Errorf("chat.max_exchanges must be > 0")
	}
	if config.Chat.ContextCharBudget <= 0 {
		return fmt.Errorf("chat.context_char_budget must be > 0")
	}
	if config.Retention.Enabled && config.Retention.MaxAge <= 0 {
		return fmt.Errorf("retention.max_age must be > 0 when retention is enabled")
	}
	return nil
}
