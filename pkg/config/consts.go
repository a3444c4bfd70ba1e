package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "GIFTONLINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "GIFTONLINE_APP_ENV"
	EnvDBDSN  = "GIFTONLINE_DB_DSN"
	EnvDBHost = "GIFTONLINE_DB_HOST"
	EnvDBUser = "GIFTONLINE_DB_USER"
	EnvDBName = "GIFTONLINE_DB_NAME"

	EnvJWTSecret = "GIFTONLINE_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
