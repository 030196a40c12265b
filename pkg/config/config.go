package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Stripe       StripeConfig
	Telegram     TelegramConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Pricing.Multiplier(); err != nil {
		return nil, err
	}
	if _, err := cfg.Cron.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARSHARING_APP_ENV" required:"true"`
	Port         string `envconfig:"CARSHARING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARSHARING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARSHARING_LOG_WARN_STACK" default:"false"`
	// PublicURL is the externally reachable base used for checkout redirect URLs.
	PublicURL   string   `envconfig:"CARSHARING_PUBLIC_URL" default:"http://localhost:8080"`
	CORSOrigins []string `envconfig:"CARSHARING_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CARSHARING_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CARSHARING_DB_DSN"`
	Driver string `envconfig:"CARSHARING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARSHARING_DB_HOST"`
	LegacyPort     int    `envconfig:"CARSHARING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARSHARING_DB_USER"`
	LegacyPassword string `envconfig:"CARSHARING_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARSHARING_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARSHARING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARSHARING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARSHARING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARSHARING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARSHARING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARSHARING_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARSHARING_REDIS_ADDR"`
	Password     string        `envconfig:"CARSHARING_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARSHARING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARSHARING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARSHARING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARSHARING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARSHARING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARSHARING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARSHARING_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARSHARING_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CARSHARING_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARSHARING_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARSHARING_AUTO_MIGRATE" default:"false"`
}

// PricingConfig holds the checkout pricing knobs.
type PricingConfig struct {
	FineMultiplier string `envconfig:"CARSHARING_FINE_MULTIPLIER" default:"1.5"`
	Currency       string `envconfig:"CARSHARING_CURRENCY" default:"usd"`
}

// Multiplier parses the configured fine multiplier; it must be a positive decimal.
func (p PricingConfig) Multiplier() (decimal.Decimal, error) {
	raw := strings.TrimSpace(p.FineMultiplier)
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required", EnvFineMultiplier)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s: %w", EnvFineMultiplier, err)
	}
	if !value.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be greater than zero", EnvFineMultiplier)
	}
	return value, nil
}

type StripeConfig struct {
	APIKey string `envconfig:"CARSHARING_STRIPE_API_KEY"`
	Secret string `envconfig:"CARSHARING_STRIPE_SECRET"`
	Env    string `envconfig:"CARSHARING_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type TelegramConfig struct {
	BotToken string        `envconfig:"CARSHARING_TELEGRAM_BOT_TOKEN"`
	ChatID   string        `envconfig:"CARSHARING_TELEGRAM_CHAT_ID"`
	BaseURL  string        `envconfig:"CARSHARING_TELEGRAM_BASE_URL" default:"https://api.telegram.org"`
	Timeout  time.Duration `envconfig:"CARSHARING_TELEGRAM_TIMEOUT" default:"5s"`
}

// Enabled reports whether both bot credentials are present.
func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CARSHARING_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CARSHARING_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CARSHARING_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"CARSHARING_PUBSUB_NOTIFICATION_TOPIC"`
}

// Enabled reports whether notifications should be mirrored to Pub/Sub.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.NotificationTopic) != ""
}

// CronConfig controls the overdue scanner cadence (daily in production).
type CronConfig struct {
	Interval time.Duration `envconfig:"CARSHARING_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"CARSHARING_CRON_LOCK_TTL" default:"1h"`
	TimeZone string        `envconfig:"CARSHARING_CRON_TIMEZONE" default:"UTC"`
}

// Location resolves the time zone used to compute day boundaries.
func (c CronConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvCronTimeZone, err)
	}
	return loc, nil
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
