package config

const (
	EnvPrefix = "CARSHARING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	defaultSQLiteDSN = "file:carsharing.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv   = "CARSHARING_APP_ENV"
	EnvPort     = "CARSHARING_APP_PORT"
	EnvLogLevel = "CARSHARING_LOG_LEVEL"

	EnvDBDSN  = "CARSHARING_DB_DSN"
	EnvDBHost = "CARSHARING_DB_HOST"
	EnvDBUser = "CARSHARING_DB_USER"
	EnvDBName = "CARSHARING_DB_NAME"

	EnvRedisURL = "CARSHARING_REDIS_URL"

	EnvJWTSecret  = "CARSHARING_JWT_SECRET"
	EnvJWTIssuer  = "CARSHARING_JWT_ISSUER"
	EnvJWTExpMins = "CARSHARING_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "CARSHARING_USE_SQLITE"
	EnvAutoMigrate = "CARSHARING_AUTO_MIGRATE"

	EnvFineMultiplier = "CARSHARING_FINE_MULTIPLIER"
	EnvCurrency       = "CARSHARING_CURRENCY"

	EnvStripeAPIKey = "CARSHARING_STRIPE_API_KEY"
	EnvStripeSecret = "CARSHARING_STRIPE_SECRET"

	EnvTelegramBotToken = "CARSHARING_TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID   = "CARSHARING_TELEGRAM_CHAT_ID"

	EnvGCPProjectID            = "CARSHARING_GCP_PROJECT_ID"
	EnvPubSubNotificationTopic = "CARSHARING_PUBSUB_NOTIFICATION_TOPIC"

	EnvCronInterval = "CARSHARING_CRON_INTERVAL"
	EnvCronTimeZone = "CARSHARING_CRON_TIMEZONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
