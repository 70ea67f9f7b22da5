package config

// EnvPrefix is passed to envconfig; individual keys carry the full name so
// both spellings resolve identically.
const EnvPrefix = "myresell"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	StripeEnvTest = "test"
	StripeEnvLive = "live"
)

const (
	EnvAppEnv   = "MYRESELL_APP_ENV"
	EnvPort     = "MYRESELL_APP_PORT"
	EnvLogLevel = "MYRESELL_LOG_LEVEL"

	EnvDBDSN  = "MYRESELL_DB_DSN"
	EnvDBHost = "MYRESELL_DB_HOST"
	EnvDBUser = "MYRESELL_DB_USER"
	EnvDBName = "MYRESELL_DB_NAME"

	EnvRedisURL = "MYRESELL_REDIS_URL"

	EnvJWTSecret              = "MYRESELL_JWT_SECRET"
	EnvJWTIssuer              = "MYRESELL_JWT_ISSUER"
	EnvJWTExpMins             = "MYRESELL_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MYRESELL_REFRESH_TOKEN_TTL_MINUTES"

	EnvStripeSecretKey      = "MYRESELL_STRIPE_SECRET_KEY"
	EnvStripePublishableKey = "MYRESELL_STRIPE_PUBLISHABLE_KEY"

	EnvCheckoutPublicBaseURL = "MYRESELL_CHECKOUT_PUBLIC_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
