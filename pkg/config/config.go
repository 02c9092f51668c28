package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TGSHOP"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "TGSHOP_APP_ENV"
	EnvPort       = "TGSHOP_APP_PORT"
	EnvDBDSN      = "TGSHOP_DB_DSN"
	EnvDBDriver   = "TGSHOP_DB_DRIVER"
	EnvJWTSecret  = "TGSHOP_JWT_SECRET"
	EnvJWTIssuer  = "TGSHOP_JWT_ISSUER"
	EnvJWTExpMins = "TGSHOP_JWT_EXPIRATION_MINUTES"
	EnvAdminHash  = "TGSHOP_ADMIN_PASSWORD_HASH"
	EnvBotToken   = "TGSHOP_BOT_TOKEN"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Bot          BotConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TGSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"TGSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TGSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TGSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TGSHOP_DB_DSN" default:"data/app.db"`
	Driver string `envconfig:"TGSHOP_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"TGSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TGSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TGSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TGSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q (expected %s or %s)", db.Driver, DriverSQLite, DriverPostgres)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type JWTConfig struct {
	Secret            string `envconfig:"TGSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TGSHOP_JWT_ISSUER" default:"tgshop"`
	ExpirationMinutes int    `envconfig:"TGSHOP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type AdminConfig struct {
	// PasswordHash is an encoded argon2id hash produced by pkg/security.
	PasswordHash string `envconfig:"TGSHOP_ADMIN_PASSWORD_HASH" required:"true"`
}

type BotConfig struct {
	Token       string `envconfig:"TGSHOP_BOT_TOKEN"`
	PollTimeout int    `envconfig:"TGSHOP_BOT_POLL_TIMEOUT" default:"30"`
	Debug       bool   `envconfig:"TGSHOP_BOT_DEBUG" default:"false"`
	MetricsPort string `envconfig:"TGSHOP_BOT_METRICS_PORT" default:"9090"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TGSHOP_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"TGSHOP_SEED_DEMO" default:"false"`
}
