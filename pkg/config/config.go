package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"

	EnvStoreDriver = "PRICING_SCHEME_STORE_DRIVER"
	EnvStoreDSN    = "PRICING_SCHEME_STORE_DSN"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Store   StoreConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRICING_SCHEME_APP_ENV" default:"dev"`
	Port         string `envconfig:"PRICING_SCHEME_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PRICING_SCHEME_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PRICING_SCHEME_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PRICING_SCHEME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	Path string `envconfig:"PRICING_SCHEME_CATALOG_PATH" default:"data/schemes.yaml"`
}

type StoreConfig struct {
	Driver      string `envconfig:"PRICING_SCHEME_STORE_DRIVER" default:"memory"`
	DSN         string `envconfig:"PRICING_SCHEME_STORE_DSN"`
	AutoMigrate bool   `envconfig:"PRICING_SCHEME_STORE_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL     string        `envconfig:"PRICING_SCHEME_REDIS_URL"`
	LockTTL time.Duration `envconfig:"PRICING_SCHEME_REDIS_LOCK_TTL" default:"30s"`
}

// Enabled reports whether the distributed application guard should be used.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case "":
		s.Driver = StoreDriverMemory
	case StoreDriverMemory:
	case StoreDriverSQLite:
		if s.DSN == "" {
			s.DSN = "file::memory:?cache=shared"
		}
	case StoreDriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvStoreDSN, EnvStoreDriver, StoreDriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
	}
	return nil
}
