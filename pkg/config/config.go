package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
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
	Env          string `envconfig:"MYRESELL_APP_ENV" required:"true"`
	Port         string `envconfig:"MYRESELL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MYRESELL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MYRESELL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MYRESELL_DB_DSN"`
	Driver string `envconfig:"MYRESELL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MYRESELL_DB_HOST"`
	LegacyPort     int    `envconfig:"MYRESELL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MYRESELL_DB_USER"`
	LegacyPassword string `envconfig:"MYRESELL_DB_PASSWORD"`
	LegacyName     string `envconfig:"MYRESELL_DB_NAME"`
	LegacySSLMode  string `envconfig:"MYRESELL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MYRESELL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MYRESELL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MYRESELL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MYRESELL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MYRESELL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MYRESELL_REDIS_ADDR"`
	Password     string        `envconfig:"MYRESELL_REDIS_PASSWORD"`
	DB           int           `envconfig:"MYRESELL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MYRESELL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MYRESELL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MYRESELL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MYRESELL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MYRESELL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MYRESELL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MYRESELL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MYRESELL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MYRESELL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MYRESELL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MYRESELL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MYRESELL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MYRESELL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MYRESELL_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MYRESELL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MYRESELL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MYRESELL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MYRESELL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MYRESELL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MYRESELL_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MYRESELL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MYRESELL_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	SecretKey      string `envconfig:"MYRESELL_STRIPE_SECRET_KEY"`
	PublishableKey string `envconfig:"MYRESELL_STRIPE_PUBLISHABLE_KEY"`
	Env            string `envconfig:"MYRESELL_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// Configured reports whether the hosted checkout keys look usable.
// Placeholder values left over from scaffolding count as unconfigured so a
// doomed redirect is refused before any network call.
func (s StripeConfig) Configured() bool {
	secret := strings.TrimSpace(s.SecretKey)
	public := strings.TrimSpace(s.PublishableKey)
	if secret == "" || public == "" {
		return false
	}
	for _, marker := range []string{"YOUR", "PLACEHOLDER", "CHANGEME", "XXXX"} {
		if strings.Contains(strings.ToUpper(secret), marker) || strings.Contains(strings.ToUpper(public), marker) {
			return false
		}
	}
	if s.Environment() == StripeEnvLive && strings.HasPrefix(public, "pk_test") {
		return false
	}
	return true
}

type CheckoutConfig struct {
	// PublicBaseURL is the origin the hosted provider redirects back to.
	PublicBaseURL    string        `envconfig:"MYRESELL_CHECKOUT_PUBLIC_BASE_URL" default:"http://localhost:3000"`
	SimulatedDelay   time.Duration `envconfig:"MYRESELL_CHECKOUT_SIMULATED_DELAY" default:"3s"`
	SimulatedOutcome string        `envconfig:"MYRESELL_CHECKOUT_SIMULATED_OUTCOME" default:"succeeded"`
}

// SuccessURL builds the payment success destination for a plan.
func (c CheckoutConfig) SuccessURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/payment/success"
}

// CancelURL builds the payment cancel destination for a plan.
func (c CheckoutConfig) CancelURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/payment/cancel"
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
