package config

const (
	EnvPrefix = "CARBON"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CatalogBackendPostgres = "postgres"
	CatalogBackendRedis    = "redis"

	EnvDBDSN  = "CARBON_DB_DSN"
	EnvDBHost = "CARBON_DB_HOST"
	EnvDBUser = "CARBON_DB_USER"
	EnvDBName = "CARBON_DB_NAME"

	EnvS3AccountID       = "CARBON_S3_ACCOUNT_ID"
	EnvS3Endpoint        = "CARBON_S3_ENDPOINT"
	EnvS3UploadURLExpiry = "CARBON_S3_UPLOAD_URL_EXPIRY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
