package config

const (
	EnvPrefix = "CARTFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "CARTFRONT_APP_ENV"
	EnvPort       = "CARTFRONT_APP_PORT"
	EnvDBDSN      = "CARTFRONT_DB_DSN"
	EnvDBHost     = "CARTFRONT_DB_HOST"
	EnvDBUser     = "CARTFRONT_DB_USER"
	EnvDBName     = "CARTFRONT_DB_NAME"
	EnvRedisURL   = "CARTFRONT_REDIS_URL"
	EnvJWTSecret  = "CARTFRONT_JWT_SECRET"
	EnvJWTIssuer  = "CARTFRONT_JWT_ISSUER"
	EnvJWTExpMins = "CARTFRONT_JWT_EXPIRATION_MINUTES"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
