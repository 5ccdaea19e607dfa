package config

const (
	EnvPrefix = "RETAILOPS"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv   = "RETAILOPS_APP_ENV"
	EnvPort     = "RETAILOPS_APP_PORT"
	EnvDBDSN    = "RETAILOPS_DB_DSN"
	EnvDBHost   = "RETAILOPS_DB_HOST"
	EnvDBUser   = "RETAILOPS_DB_USER"
	EnvDBName   = "RETAILOPS_DB_NAME"
	EnvRedisURL = "RETAILOPS_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
