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
	JWT          JWTConfig
	Sharing      SharingConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
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
	Env          string `envconfig:"DECKSHARE_APP_ENV" required:"true"`
	Port         string `envconfig:"DECKSHARE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DECKSHARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DECKSHARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DECKSHARE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DECKSHARE_DB_DSN"`
	Driver string `envconfig:"DECKSHARE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DECKSHARE_DB_HOST"`
	Port     int    `envconfig:"DECKSHARE_DB_PORT" default:"5432"`
	User     string `envconfig:"DECKSHARE_DB_USER"`
	Password string `envconfig:"DECKSHARE_DB_PASSWORD"`
	Name     string `envconfig:"DECKSHARE_DB_NAME"`
	SSLMode  string `envconfig:"DECKSHARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DECKSHARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DECKSHARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DECKSHARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DECKSHARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config requires DSN or host/user/name")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"DECKSHARE_REDIS_URL"`
	Address      string        `envconfig:"DECKSHARE_REDIS_ADDR"`
	Password     string        `envconfig:"DECKSHARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DECKSHARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DECKSHARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DECKSHARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DECKSHARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DECKSHARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DECKSHARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DECKSHARE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DECKSHARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DECKSHARE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// SharingConfig gates and tunes the deck sharing subsystem. Enabled is
// injected here instead of living in any global flag.
type SharingConfig struct {
	Enabled          bool          `envconfig:"DECKSHARE_SHARING_ENABLED" default:"true"`
	MaxCollaborators int           `envconfig:"DECKSHARE_SHARING_MAX_COLLABORATORS" default:"25"`
	InviteTTL        time.Duration `envconfig:"DECKSHARE_SHARING_INVITE_TTL" default:"336h"`
	TxMaxRetries     int           `envconfig:"DECKSHARE_SHARING_TX_MAX_RETRIES" default:"3"`
	TxRetryBackoff   time.Duration `envconfig:"DECKSHARE_SHARING_TX_RETRY_BACKOFF" default:"25ms"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DECKSHARE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"DECKSHARE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic string `envconfig:"DECKSHARE_PUBSUB_DOMAIN_TOPIC" default:"deckshare-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DECKSHARE_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DECKSHARE_OUTBOX_POLL_INTERVAL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DECKSHARE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"DECKSHARE_CRON_INTERVAL" default:"1h"`
	SweepBatch int           `envconfig:"DECKSHARE_CRON_SWEEP_BATCH" default:"200"`
}
