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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"ASSETDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"ASSETDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ASSETDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASSETDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ASSETDESK_DB_DSN"`
	Driver string `envconfig:"ASSETDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ASSETDESK_DB_HOST"`
	Port     int    `envconfig:"ASSETDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"ASSETDESK_DB_USER"`
	Password string `envconfig:"ASSETDESK_DB_PASSWORD"`
	Name     string `envconfig:"ASSETDESK_DB_NAME"`
	SSLMode  string `envconfig:"ASSETDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ASSETDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASSETDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASSETDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASSETDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ASSETDESK_REDIS_URL" required:"true"`
	Password     string        `envconfig:"ASSETDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ASSETDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ASSETDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ASSETDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ASSETDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ASSETDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ASSETDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ASSETDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ASSETDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ASSETDESK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ASSETDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ASSETDESK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ASSETDESK_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	ActivityTopic        string `envconfig:"ASSETDESK_PUBSUB_ACTIVITY_TOPIC" default:"assetdesk-activity-events"`
	ActivitySubscription string `envconfig:"ASSETDESK_PUBSUB_ACTIVITY_SUBSCRIPTION"`
}

type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"ASSETDESK_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int           `envconfig:"ASSETDESK_RATE_LIMIT_WRITE_LIMIT" default:"60"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ASSETDESK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ASSETDESK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ASSETDESK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
