package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret              = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer              = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins             = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"

	EnvAdminEmails = "STOREFRONT_ADMIN_EMAILS"
	EnvTimezone    = "STOREFRONT_TIMEZONE"

	EnvOpenAIAPIKey = "STOREFRONT_OPENAI_API_KEY"
	EnvOpenAIModel  = "STOREFRONT_OPENAI_MODEL"

	EnvGoogleClientID = "STOREFRONT_GOOGLE_CLIENT_ID"

	EnvGCPProjectID       = "STOREFRONT_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic  = "STOREFRONT_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub    = "STOREFRONT_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvBigQueryDataset    = "STOREFRONT_BIGQUERY_DATASET"
	EnvBigQueryOrderTable = "STOREFRONT_BIGQUERY_ORDER_EVENTS_TABLE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
