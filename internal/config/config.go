package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by Load. Field tags
// carry the full variable name.
const EnvPrefix = "BIDPRICING"

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	Search   SearchConfig
	Storage  StorageConfig
	Share    ShareConfig
	Throttle ThrottleConfig
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string `envconfig:"BIDPRICING_APP_ENV" default:"development"`
	Port           string `envconfig:"BIDPRICING_PORT" default:"8080"`
	AllowedOrigins string `envconfig:"BIDPRICING_ALLOWED_ORIGINS" default:"*"`
	LogLevel       string `envconfig:"BIDPRICING_LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"BIDPRICING_LOG_FORMAT" default:"json"`
	LogWarnStack   bool   `envconfig:"BIDPRICING_LOG_WARN_STACK" default:"false"`
	BodyLimitMB    int    `envconfig:"BIDPRICING_BODY_LIMIT_MB" default:"10"`
	PublicURL      string `envconfig:"BIDPRICING_PUBLIC_URL" default:"http://localhost:8080"`
	Drafter        string `envconfig:"BIDPRICING_DRAFTER" default:"auto"` // auto, gemini or heuristic
}

func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	URL             string        `envconfig:"BIDPRICING_DATABASE_URL"`
	MaxConns        int32         `envconfig:"BIDPRICING_DB_MAX_CONNS" default:"25"`
	MinConns        int32         `envconfig:"BIDPRICING_DB_MIN_CONNS" default:"5"`
	MaxConnLifetime time.Duration `envconfig:"BIDPRICING_DB_CONN_MAX_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"BIDPRICING_DB_CONN_MAX_IDLE_TIME" default:"30m"`
}

// Enabled reports whether inquiries are persisted
func (d DBConfig) Enabled() bool {
	return d.URL != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"BIDPRICING_REDIS_URL"`
	Address      string        `envconfig:"BIDPRICING_REDIS_ADDR"`
	Password     string        `envconfig:"BIDPRICING_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIDPRICING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIDPRICING_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"BIDPRICING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIDPRICING_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BIDPRICING_REDIS_WRITE_TIMEOUT" default:"3s"`
	DraftTTL     time.Duration `envconfig:"BIDPRICING_DRAFT_CACHE_TTL" default:"6h"`
}

// Enabled reports whether draft caching is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GeminiConfig struct {
	APIKey      string        `envconfig:"BIDPRICING_GEMINI_API_KEY"`
	Model       string        `envconfig:"BIDPRICING_GEMINI_MODEL" default:"gemini-2.0-flash"`
	Temperature float32       `envconfig:"BIDPRICING_GEMINI_TEMPERATURE" default:"0.2"`
	Timeout     time.Duration `envconfig:"BIDPRICING_GEMINI_TIMEOUT" default:"60s"`
}

type SearchConfig struct {
	SerpAPIKey string        `envconfig:"BIDPRICING_SERP_API_KEY"`
	BaseURL    string        `envconfig:"BIDPRICING_SERP_API_URL" default:"https://serpapi.com/search.json"`
	Timeout    time.Duration `envconfig:"BIDPRICING_SERP_API_TIMEOUT" default:"15s"`
}

type StorageConfig struct {
	Enabled       bool          `envconfig:"BIDPRICING_S3_ENABLED" default:"false"`
	Endpoint      string        `envconfig:"BIDPRICING_S3_ENDPOINT" default:"localhost:3900"`
	AccessKey     string        `envconfig:"BIDPRICING_S3_ACCESS_KEY"`
	SecretKey     string        `envconfig:"BIDPRICING_S3_SECRET_KEY"`
	Bucket        string        `envconfig:"BIDPRICING_S3_BUCKET" default:"pricing-exports"`
	Region        string        `envconfig:"BIDPRICING_S3_REGION" default:"garage"`
	UseSSL        bool          `envconfig:"BIDPRICING_S3_USE_SSL" default:"false"`
	URLExpiry     time.Duration `envconfig:"BIDPRICING_S3_URL_EXPIRY" default:"1h"`
	Prefix        string        `envconfig:"BIDPRICING_S3_PREFIX"`
	RetentionDays int           `envconfig:"BIDPRICING_S3_RETENTION_DAYS" default:"30"`
}

type ShareConfig struct {
	Secret string        `envconfig:"BIDPRICING_SHARE_SECRET" default:"change-me-in-production-please"`
	TTL    time.Duration `envconfig:"BIDPRICING_SHARE_TTL" default:"168h"`
}

type ThrottleConfig struct {
	RequestsPerMinute int `envconfig:"BIDPRICING_UPSTREAM_RPM" default:"30"`
	Burst             int `envconfig:"BIDPRICING_UPSTREAM_BURST" default:"5"`
}
