package config

const (
	EnvPrefix = "assetdesk"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ASSETDESK_DB_DSN"
	EnvDBHost = "ASSETDESK_DB_HOST"
	EnvDBUser = "ASSETDESK_DB_USER"
	EnvDBName = "ASSETDESK_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
