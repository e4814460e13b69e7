package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" required:"true"`
	Port         string `envconfig:"CATALOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CATALOG_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CATALOG_DB_DSN"`
	Driver string `envconfig:"CATALOG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CATALOG_DB_HOST"`
	LegacyPort     int    `envconfig:"CATALOG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATALOG_DB_USER"`
	LegacyPassword string `envconfig:"CATALOG_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATALOG_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from the legacy host/user/name parts when one is
// not provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name parts are required")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	if d.LegacyPassword != "" {
		u.User = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	} else {
		u.User = url.User(d.LegacyUser)
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL"`
	Address      string        `envconfig:"CATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CATALOG_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CATALOG_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"CATALOG_FEATURE_IDEMPOTENCY" default:"true"`
}

type CatalogConfig struct {
	Currency       string        `envconfig:"CATALOG_CURRENCY" default:"USD"`
	CartTTL        time.Duration `envconfig:"CATALOG_CART_TTL" default:"168h"`
	IdempotencyTTL time.Duration `envconfig:"CATALOG_IDEMPOTENCY_TTL" default:"24h"`
}
