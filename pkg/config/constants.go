package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvPort       = "STOREFRONT_APP_PORT"
	EnvDBDSN      = "STOREFRONT_DB_DSN"
	EnvDBHost     = "STOREFRONT_DB_HOST"
	EnvDBUser     = "STOREFRONT_DB_USER"
	EnvDBName     = "STOREFRONT_DB_NAME"
	EnvRedisURL   = "STOREFRONT_REDIS_URL"
	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvSMTPHost   = "STOREFRONT_SMTP_HOST"
	EnvSMTPFrom   = "STOREFRONT_SMTP_FROM_EMAIL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
