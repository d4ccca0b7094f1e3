package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/auth"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL    string `env:"DATABASE_URL,required" validate:"required"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS"          envDefault:"10"    validate:"min=1,max=100"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START"      envDefault:"false"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret      string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTAlgorithm   string        `env:"JWT_ALGORITHM"       envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"    envDefault:"60m"   validate:"gt=0"`
	BcryptCost     int           `env:"BCRYPT_COST"         envDefault:"10"    validate:"min=4,max=31"`

	// Entra ID app registration. An empty ID skips its check; with
	// STRICT_EXTERNAL_TOKENS both empty refuses external tokens outright.
	AzureTenantID        string `env:"AZURE_TENANT_ID"`
	AzureClientID        string `env:"AZURE_CLIENT_ID"`
	StrictExternalTokens bool   `env:"STRICT_EXTERNAL_TOKENS" envDefault:"false"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	IngestTimeout time.Duration `env:"INGEST_TIMEOUT" envDefault:"15s"         validate:"gt=0"`
	IngestURL     string        `env:"INGEST_URL"     validate:"omitempty,url"`
	IngestCron    string        `env:"INGEST_CRON"    envDefault:"*/15 * * * *" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AuthConfig is the immutable token configuration shared by the issuer and
// the verifier.
func (c *Config) AuthConfig() auth.Config {
	return auth.Config{
		Secret:    []byte(c.JWTSecret),
		Algorithm: c.JWTAlgorithm,
		TokenTTL:  c.AccessTokenTTL,
		TenantID:  c.AzureTenantID,
		ClientID:  c.AzureClientID,

		StrictExternal: c.StrictExternalTokens,
	}
}
