package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingProviderCreds = errors.New("PREDICTUS_USERNAME and PREDICTUS_PASSWORD are required")
	ErrInvalidRecordsSource = errors.New("invalid records provider")
	ErrInvalidLLMProvider   = errors.New("invalid llm provider")
)

type Config struct {
	Records   RecordsConfig
	LLM       LLMConfig
	Database  DatabaseConfig
	Log       LogConfig
	Timeouts  TimeoutConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Batch     BatchConfig
	Scoring   ScoringConfig
}

type RecordsConfig struct {
	Provider string // predictus | mock
	Username string
	Password string
	BaseURL  string
}

type LLMConfig struct {
	Provider   string // gemini | openrouter | mock | none
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type DatabaseConfig struct {
	URL string // пусто = история оценок не персистится
}

type LogConfig struct {
	Level string
}

type TimeoutConfig struct {
	Fetch   time.Duration
	Analyze time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	CallsPerMinute int
}

type BatchConfig struct {
	Workers int
}

// ScoringConfig - веса и путь до YAML с таблицами. Сами веса
// валидируются в конструкторе композера, не здесь.
type ScoringConfig struct {
	WeightVolume    float64
	WeightDefendant float64
	WeightSeverity  float64
	WeightFinancial float64
	TablesFile      string
}

func Load() (*Config, error) {
	cfg := &Config{
		Records: RecordsConfig{
			Provider: getEnvOrDefault("RECORDS_PROVIDER", "predictus"),
			Username: os.Getenv("PREDICTUS_USERNAME"),
			Password: os.Getenv("PREDICTUS_PASSWORD"),
			BaseURL:  getEnvOrDefault("PREDICTUS_BASE_URL", "https://api.predictus.com.br"),
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "gemini"),
			Gemini: GeminiConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
				BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			},
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Timeouts: TimeoutConfig{
			Fetch:   time.Duration(getEnvIntOrDefault("FETCH_TIMEOUT_SEC", 30)) * time.Second,
			Analyze: time.Duration(getEnvIntOrDefault("ANALYZE_TIMEOUT_SEC", 60)) * time.Second,
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			CallsPerMinute: getEnvIntOrDefault("LLM_RATE_LIMIT_PER_MINUTE", 15),
		},
		Batch: BatchConfig{
			Workers: getEnvIntOrDefault("BATCH_WORKERS", 4),
		},
		Scoring: ScoringConfig{
			WeightVolume:    getEnvFloatOrDefault("RISK_WEIGHT_VOLUME", 0.25),
			WeightDefendant: getEnvFloatOrDefault("RISK_WEIGHT_DEFENDANT", 0.30),
			WeightSeverity:  getEnvFloatOrDefault("RISK_WEIGHT_SEVERITY", 0.25),
			WeightFinancial: getEnvFloatOrDefault("RISK_WEIGHT_FINANCIAL", 0.20),
			TablesFile:      os.Getenv("SCORING_TABLES_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Records.Provider {
	case "predictus":
		if c.Records.Username == "" || c.Records.Password == "" {
			return ErrMissingProviderCreds
		}
	case "mock":
	default:
		return ErrInvalidRecordsSource
	}

	switch c.LLM.Provider {
	case "gemini", "openrouter", "mock", "none":
	default:
		return ErrInvalidLLMProvider
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
