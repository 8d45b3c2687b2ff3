package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App            AppConfig        `mapstructure:"app"`
	Server         ServerConfig     `mapstructure:"server"`
	AI             AIConfig         `mapstructure:"ai"`
	OpenRouter     OpenRouterConfig `mapstructure:"openrouter"`
	Gemini         GeminiConfig     `mapstructure:"gemini"`
	Cache          CacheConfig      `mapstructure:"cache"`
	Redis          RedisConfig      `mapstructure:"redis"`
	Database       DatabaseConfig   `mapstructure:"database"`
	Suggest        SuggestConfig    `mapstructure:"suggest"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	MaxBodyBytes   int64            `mapstructure:"max_body_bytes"`
	LogLevel       string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AIConfig 模型呼叫設定
type AIConfig struct {
	// Provider 可為 openrouter、gemini 或 none
	Provider        string  `mapstructure:"provider"`
	JSONTemperature float64 `mapstructure:"json_temperature"`
	TextTemperature float64 `mapstructure:"text_temperature"`
	MaxConcurrent   int     `mapstructure:"max_concurrent"`
	MaxQueueSize    int     `mapstructure:"max_queue_size"`
}

// OpenRouterConfig OpenAI 相容的 chat completions 端點
type OpenRouterConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig Google Gemini 設定
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Backend 可為 memory 或 redis
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DatabaseConfig 候選食譜資料庫設定，URL 為空時使用記憶體資料來源
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	EnsureSchema    bool          `mapstructure:"ensure_schema"`
}

// SuggestConfig 推薦流程預設值
type SuggestConfig struct {
	DefaultLimit   int `mapstructure:"default_limit"`
	GeneratedCount int `mapstructure:"generated_count"`
	CandidateLimit int `mapstructure:"candidate_limit"`
	BroadenLimit   int `mapstructure:"broaden_limit"`
	BroadenBelow   int `mapstructure:"broaden_below"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時僅使用環境變數
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"ai.provider":         "AI_PROVIDER",
		"openrouter.api_key":  "OPENROUTER_API_KEY",
		"openrouter.model":    "OPENROUTER_MODEL",
		"openrouter.base_url": "OPENROUTER_BASE_URL",
		"gemini.api_key":      "GEMINI_API_KEY",
		"gemini.model":        "GEMINI_MODEL",
		"cache.enabled":       "CACHE_ENABLED",
		"cache.backend":       "CACHE_BACKEND",
		"redis.addr":          "REDIS_ADDR",
		"redis.password":      "REDIS_PASSWORD",
		"database.url":        "DATABASE_URL",
		"request_timeout":     "REQUEST_TIMEOUT",
		"log_level":           "LOG_LEVEL",
		"server.port":         "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.AI.Provider = resolveProvider(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "pantry-recipes")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")

	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.json_temperature", 0.2)
	v.SetDefault("ai.text_temperature", 0.7)
	v.SetDefault("ai.max_concurrent", 8)
	v.SetDefault("ai.max_queue_size", 64)

	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("openrouter.timeout", "60s")

	v.SetDefault("gemini.model", "gemini-1.5-flash")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.ensure_schema", false)

	v.SetDefault("suggest.default_limit", 6)
	v.SetDefault("suggest.generated_count", 3)
	v.SetDefault("suggest.candidate_limit", 60)
	v.SetDefault("suggest.broaden_limit", 90)
	v.SetDefault("suggest.broaden_below", 3)

	v.SetDefault("request_timeout", "120s")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("log_level", "info")
}

// resolveProvider 未指定 provider 時依可用的 API Key 推斷
func resolveProvider(config *Config) string {
	provider := strings.ToLower(strings.TrimSpace(config.AI.Provider))
	if provider != "" {
		return provider
	}
	switch {
	case config.OpenRouter.APIKey != "":
		return "openrouter"
	case config.Gemini.APIKey != "":
		return "gemini"
	default:
		return "none"
	}
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.AI.Provider {
	case "openrouter":
		if config.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for provider openrouter")
		}
	case "gemini":
		if config.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider gemini")
		}
	case "none":
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}
	if config.AI.MaxConcurrent <= 0 {
		return fmt.Errorf("invalid ai max concurrent")
	}
	if config.AI.MaxQueueSize < 0 {
		return fmt.Errorf("invalid ai max queue size")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Redis.Addr == "" {
				return fmt.Errorf("redis addr is required for cache backend redis")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.Suggest.DefaultLimit <= 0 {
		return fmt.Errorf("invalid suggest default limit")
	}
	if config.Suggest.CandidateLimit <= 0 || config.Suggest.BroadenLimit < config.Suggest.CandidateLimit {
		return fmt.Errorf("invalid candidate limits")
	}
	if config.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}

	return nil
}
