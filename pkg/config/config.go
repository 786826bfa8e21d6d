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
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Order         OrderConfig
	SMTP          SMTPConfig
	Outbox        OutboxConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Order.ParseAmounts(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_CART_TTL" default:"720h"`
}

// OrderConfig carries the pricing knobs frozen into each order at creation.
type OrderConfig struct {
	TaxRate      string `envconfig:"STOREFRONT_ORDER_TAX_RATE" default:"0.20"`
	ShippingCost string `envconfig:"STOREFRONT_ORDER_SHIPPING_COST" default:"10.00"`

	taxRate      decimal.Decimal
	shippingCost decimal.Decimal
}

// ParseAmounts validates and caches the decimal forms. Load calls it;
// tests building an OrderConfig by hand call it too.
func (o *OrderConfig) ParseAmounts() error {
	rate, err := decimal.NewFromString(o.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid order tax rate %q: %w", o.TaxRate, err)
	}
	cost, err := decimal.NewFromString(o.ShippingCost)
	if err != nil {
		return fmt.Errorf("invalid order shipping cost %q: %w", o.ShippingCost, err)
	}
	if rate.IsNegative() || cost.IsNegative() {
		return fmt.Errorf("order tax rate and shipping cost must be non-negative")
	}
	o.taxRate = rate
	o.shippingCost = cost
	return nil
}

// TaxRateDecimal returns the parsed tax rate (0.20 means 20%).
func (o OrderConfig) TaxRateDecimal() decimal.Decimal {
	return o.taxRate
}

// ShippingCostDecimal returns the parsed flat shipping fee.
func (o OrderConfig) ShippingCostDecimal() decimal.Decimal {
	return o.shippingCost
}

type SMTPConfig struct {
	Host        string   `envconfig:"STOREFRONT_SMTP_HOST"`
	Port        int      `envconfig:"STOREFRONT_SMTP_PORT" default:"587"`
	Username    string   `envconfig:"STOREFRONT_SMTP_USERNAME"`
	Password    string   `envconfig:"STOREFRONT_SMTP_PASSWORD"`
	From        string   `envconfig:"STOREFRONT_SMTP_FROM_EMAIL"`
	AdminEmails []string `envconfig:"STOREFRONT_ADMIN_EMAILS"`
}

// Addr returns host:port for the SMTP dialer.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"STOREFRONT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"STOREFRONT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"STOREFRONT_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"STOREFRONT_MAILER_METRICS_PORT" default:"9090"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
