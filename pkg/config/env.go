package config

const EnvPrefix = "UNIFORMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "UNIFORMS_APP_ENV"
	EnvPort       = "UNIFORMS_APP_PORT"
	EnvDBDSN      = "UNIFORMS_DB_DSN"
	EnvDBHost     = "UNIFORMS_DB_HOST"
	EnvDBUser     = "UNIFORMS_DB_USER"
	EnvDBName     = "UNIFORMS_DB_NAME"
	EnvRedisURL   = "UNIFORMS_REDIS_URL"
	EnvJWTSecret  = "UNIFORMS_JWT_SECRET"
	EnvJWTIssuer  = "UNIFORMS_JWT_ISSUER"
	EnvERPBaseURL = "UNIFORMS_ERP_BASE_URL"
	EnvERPToken   = "UNIFORMS_ERP_TOKEN"
	EnvERPTimeout = "UNIFORMS_ERP_TIMEOUT"
	EnvPerPage    = "UNIFORMS_DEFAULT_PER_PAGE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
