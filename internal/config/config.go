package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	defaultSecret = "dev-session-secret"
)

type AIConfig struct {
	APIKey  string `env:"AI_API_KEY"`
	BaseURL string `env:"AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string `env:"AI_MODEL" envDefault:"gemini-2.5-flash"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"` // empty disables caching
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

type Config struct {
	Env           string        `env:"APP_ENV" envDefault:"dev"`
	Port          string        `env:"API_PORT" envDefault:"8080"`
	Origin        string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RatePerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"200"`

	Store        string        `env:"ROW_STORE" envDefault:"sheets"` // sheets | postgres | memory
	ScriptURL    string        `env:"SCRIPT_BASE_URL"`
	StoreTimeout time.Duration `env:"ROW_STORE_TIMEOUT" envDefault:"15s"`
	DBURL        string        `env:"DB_DSN"`
	DBMigrate    bool          `env:"DB_MIGRATE" envDefault:"true"`

	Redis RedisConfig
	AI    AIConfig
}

// Load reads .env files when present, then the process environment.
func Load() (Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreSheets:
		if c.ScriptURL == "" {
			return errors.New("SCRIPT_BASE_URL is required for the sheets row store")
		}
	case StorePostgres:
		if c.DBURL == "" {
			return errors.New("DB_DSN is required for the postgres row store")
		}
	case StoreMemory:
	default:
		return errors.New("ROW_STORE must be one of sheets, postgres, memory")
	}
	if c.Env != "dev" && c.SessionSecret == defaultSecret {
		return errors.New("SESSION_SECRET must be set outside dev")
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
