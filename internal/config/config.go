package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrMissingLLMKey se devuelve cuando no hay API key para el proveedor LLM.
var ErrMissingLLMKey = errors.New("config: LLM_API_KEY or GOOGLE_API_KEY is required")

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LLMProvider     string  `env:"LLM_PROVIDER" envDefault:"googleai"`
	LLMAPIKey       string  `env:"LLM_API_KEY"`
	GoogleAPIKey    string  `env:"GOOGLE_API_KEY"`
	LLMBaseURL      string  `env:"LLM_BASE_URL"`
	LLMModel        string  `env:"LLM_MODEL" envDefault:"gemini-pro-latest"`
	LLMSystemPrompt string  `env:"LLM_SYSTEM_PROMPT"`
	LLMTemperature  float64 `env:"LLM_TEMPERATURE" envDefault:"0.9"`
	LLMMaxTokens    int     `env:"LLM_MAX_TOKENS" envDefault:"2000"`

	HistoryReplayLimit int           `env:"HISTORY_REPLAY_LIMIT" envDefault:"50"`
	SessionCacheSize   int           `env:"SESSION_CACHE_SIZE" envDefault:"1000"`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"20"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		cfg.LLMAPIKey = strings.TrimSpace(cfg.GoogleAPIKey)
	}
	if cfg.LLMAPIKey == "" {
		return nil, ErrMissingLLMKey
	}
	return &cfg, nil
}

// UsesSQLite indica si DATABASE_URL apunta al store embebido.
func (c *Config) UsesSQLite() bool {
	return strings.HasPrefix(c.DatabaseURL, SQLiteScheme)
}

// SQLitePath devuelve la ruta del archivo SQLite sin el esquema.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, SQLiteScheme)
}

// SQLiteScheme prefija DATABASE_URL cuando se usa SQLite en vez de Postgres.
const SQLiteScheme = "sqlite://"
