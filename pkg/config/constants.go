package config

// EnvPrefix is passed to envconfig; individual fields carry explicit tags.
const EnvPrefix = "leadspark"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LEADSPARK_DB_DSN"
	EnvDBHost = "LEADSPARK_DB_HOST"
	EnvDBUser = "LEADSPARK_DB_USER"
	EnvDBName = "LEADSPARK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
