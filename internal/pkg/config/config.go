package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	NotifySinkLog    = "log"
	NotifySinkResend = "resend"
	NotifySinkKafka  = "kafka"
)

type Config struct {
	Port          string   `env:"PORT,           default=3000"`
	Env           string   `env:"ENV,            default=development"`
	LogLevel      string   `env:"LOG_LEVEL,      default=info"`
	AppURL        string   `env:"APP_URL,        default=http://localhost:3000"`
	SessionSecret string   `env:"SESSION_SECRET"`
	BcryptCost    int      `env:"BCRYPT_COST,    default=10"`
	StoreDriver   string   `env:"STORE_DRIVER,   default=postgres"`
	AllowOrigins  []string `env:"CORS_ALLOW_ORIGINS, default=*"`
	StaticDir     string   `env:"STATIC_DIR,     default=public"`

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Notify   NotifyConfig
}

type PostgresConfig struct {
	URL      string `env:"DATABASE_URL,  default=postgres://localhost:5432/maraseel?sslmode=disable"`
	MaxConns int32  `env:"DB_MAX_CONNS,  default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=maraseel"`
}

// RedisConfig is optional: with an empty Addr the forgot-password limit
// falls back to an in-process limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type NotifyConfig struct {
	Sink    string `env:"NOTIFY_SINK,    default=log"`
	Workers int    `env:"NOTIFY_WORKERS, default=2"`

	ResendAPIKey        string        `env:"RESEND_API_KEY"`
	ResendFrom          string        `env:"RESEND_FROM,     default=Maraseel <onboarding@resend.dev>"`
	ResendBaseURL       string        `env:"RESEND_BASE_URL, default=https://api.resend.com"`
	ResendTestRecipient string        `env:"RESEND_TEST_RECIPIENT"`
	ResendTimeout       time.Duration `env:"RESEND_TIMEOUT,  default=10s"`

	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC, default=maraseel.notifications"`
}

// devSessionSecret signs cookies outside production when SESSION_SECRET is unset.
const devSessionSecret = "maraseel-dev-session-secret"

func (c *Config) IsProduction() bool  { return c.Env == EnvProduction }
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		c.SessionSecret = devSessionSecret
	}

	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.Notify.Sink {
	case NotifySinkLog:
	case NotifySinkResend:
		if c.Notify.ResendAPIKey == "" {
			return errors.New("RESEND_API_KEY is required when NOTIFY_SINK=resend")
		}
	case NotifySinkKafka:
		if len(c.Notify.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when NOTIFY_SINK=kafka")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_SINK %q", c.Notify.Sink)
	}

	if c.Notify.Workers < 1 {
		c.Notify.Workers = 1
	}
	return nil
}
