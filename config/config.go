package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Development defaults. Validate refuses them in production.
const (
	DefaultJWTSecret     = "dev-secret-change-me"
	DefaultAdminEmail    = "admin@kokumandcoast.in"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8000"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret         string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
	AdminEmail        string        `env:"ADMIN_EMAIL" envDefault:"admin@kokumandcoast.in"`
	AdminPassword     string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`

	StoreDriver  string        `env:"STORE_DRIVER" envDefault:"mongo"`
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"mongodb://localhost:27017"`
	DatabaseName string        `env:"DATABASE_NAME" envDefault:"kokum_coast"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`

	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`
	LoginRatePerMinute int      `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
}

// Load reads .env.<APP_ENV> and .env (earlier files win, real
// environment variables win over both), then decodes and validates.
func Load() (Config, error) {
	files := []string{".env"}
	if appEnv := os.Getenv("APP_ENV"); appEnv != "" {
		files = append([]string{".env." + appEnv}, files...)
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromMap decodes a configuration from explicit key/value pairs instead
// of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var problems []string
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("GIN_MODE %q is not one of debug, release, test", c.GinMode))
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.AdminEmail) == "" {
		problems = append(problems, "ADMIN_EMAIL is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		problems = append(problems, "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	switch c.StoreDriver {
	case "mongo", "sqlite", "mysql", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER %q is not one of mongo, sqlite, mysql, postgres", c.StoreDriver))
	}
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.DatabaseName == "" {
		problems = append(problems, "DATABASE_NAME is required")
	}
	if c.StoreTimeout <= 0 {
		problems = append(problems, "STORE_TIMEOUT must be positive")
	}
	if c.LoginRatePerMinute < 0 {
		problems = append(problems, "LOGIN_RATE_PER_MINUTE cannot be negative")
	}

	if c.IsProduction() {
		if c.JWTSecret == DefaultJWTSecret {
			problems = append(problems, "JWT_SECRET must be changed in production")
		}
		if c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword {
			problems = append(problems, "ADMIN_PASSWORD must be changed in production")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }

func (c Config) IsTest() bool { return c.AppEnv == "test" }

func (c Config) Addr() string { return ":" + c.Port }
