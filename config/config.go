package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"loan-advisor/domain"
	"loan-advisor/finance"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	ListenAddr string
	LogLevel   string

	// DatabaseURL selects the analysis store: postgres:// URLs use
	// PostgreSQL, any other value is a SQLite path, empty keeps analyses in
	// memory.
	DatabaseURL string

	// RedisAddr enables the Redis report cache; empty uses an in-process
	// cache.
	RedisAddr string
	CacheTTL  time.Duration

	RateLimitCapacity int
	RateLimitWindow   time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that sets those headers.
	TrustProxyHeaders bool

	LoanDefaultsFile string
	MinimumDSCR      float64

	OpenAIAPIKey string
}

func Default() *Config {
	return &Config{
		ListenAddr:        ":8080",
		LogLevel:          "info",
		CacheTTL:          24 * time.Hour,
		RateLimitCapacity: 30,
		RateLimitWindow:   time.Minute,
		MinimumDSCR:       finance.DefaultMinimumDSCR,
	}
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("no .env file found, using environment variables")
		} else {
			log.Printf("warning: error loading .env file: %v", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, so tests need not touch
// the process environment.
func FromEnv(getenv func(string) string) *Config {
	cfg := Default()

	if v := getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	cfg.RedisAddr = getenv("REDIS_ADDR")
	cfg.LoanDefaultsFile = getenv("LOAN_DEFAULTS_FILE")
	cfg.OpenAIAPIKey = getenv("OPENAI_API_KEY")

	cfg.CacheTTL = durationOr(getenv, "CACHE_TTL", cfg.CacheTTL)
	cfg.RateLimitWindow = durationOr(getenv, "RATE_LIMIT_WINDOW", cfg.RateLimitWindow)

	if v := getenv("TRUST_PROXY_HEADERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("warning: invalid TRUST_PROXY_HEADERS %q, proxy headers stay untrusted", v)
		} else {
			cfg.TrustProxyHeaders = b
		}
	}

	if v := getenv("RATE_LIMIT_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("warning: invalid RATE_LIMIT_CAPACITY %q, using %d", v, cfg.RateLimitCapacity)
		} else {
			cfg.RateLimitCapacity = n
		}
	}
	if v := getenv("MINIMUM_DSCR"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			log.Printf("warning: invalid MINIMUM_DSCR %q, using %.2f", v, cfg.MinimumDSCR)
		} else {
			cfg.MinimumDSCR = f
		}
	}

	return cfg
}

func durationOr(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// UsesPostgres reports whether DatabaseURL points at PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// LoanDefaults returns the purpose defaults table: the YAML file when one
// is configured, the built-in table otherwise.
func (c *Config) LoanDefaults() (finance.PurposeDefaults, error) {
	if c.LoanDefaultsFile == "" {
		return finance.DefaultPurposeDefaults(), nil
	}
	data, err := os.ReadFile(c.LoanDefaultsFile)
	if err != nil {
		return nil, fmt.Errorf("read loan defaults: %w", err)
	}
	return ParseLoanDefaults(data)
}

// ParseLoanDefaults decodes a YAML table of the form
//
//	equipment:
//	  rate: 8.0
//	  term_months: 60
func ParseLoanDefaults(data []byte) (finance.PurposeDefaults, error) {
	var raw map[string]domain.LoanDefaults
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse loan defaults: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse loan defaults: no purposes defined")
	}

	defaults := make(finance.PurposeDefaults, len(raw))
	for purpose, def := range raw {
		if def.TermMonths <= 0 || def.TermMonths > finance.MaxTermMonths {
			return nil, fmt.Errorf("loan defaults for %q: invalid term_months %d", purpose, def.TermMonths)
		}
		if def.AnnualRatePercent < 0 || def.AnnualRatePercent > finance.MaxInterestRate {
			return nil, fmt.Errorf("loan defaults for %q: invalid rate %v", purpose, def.AnnualRatePercent)
		}
		defaults[finance.PurposeKey(purpose)] = def
	}
	return defaults, nil
}
