package config

// EnvPrefix is handed to envconfig; every field overrides its key explicitly.
const EnvPrefix = "FUNNELHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "FUNNELHUB_APP_ENV"
	EnvPort      = "FUNNELHUB_APP_PORT"
	EnvBaseURL   = "FUNNELHUB_BASE_URL"
	EnvDBDSN     = "FUNNELHUB_DB_DSN"
	EnvDBDriver  = "FUNNELHUB_DB_DRIVER"
	EnvDBHost    = "FUNNELHUB_DB_HOST"
	EnvDBUser    = "FUNNELHUB_DB_USER"
	EnvDBName    = "FUNNELHUB_DB_NAME"
	EnvRedisURL  = "FUNNELHUB_REDIS_URL"
	EnvJWTSecret = "FUNNELHUB_JWT_SECRET"
	EnvJWTIssuer = "FUNNELHUB_JWT_ISSUER"
	EnvJWTExp    = "FUNNELHUB_JWT_EXPIRATION_MINUTES"
	EnvCORS      = "FUNNELHUB_CORS_ALLOWED_ORIGINS"

	EnvJWTCookieSecure = "FUNNELHUB_JWT_COOKIE_SECURE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
