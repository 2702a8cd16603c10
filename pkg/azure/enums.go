package azure

type AuthMode string

const (
	// AuthModeCLI reuses the session of a signed-in Azure CLI.
	AuthModeCLI AuthMode = "cli"
	// AuthModeDefault walks the azidentity default credential chain (environment, workload identity, managed identity, CLI).
	AuthModeDefault AuthMode = "default"
	// AuthModeClientSecret authenticates as a service principal with a client secret.
	AuthModeClientSecret AuthMode = "client-secret"
)

type ConnectionStringType string

const (
	ConnectionStringTypeSQLAzure        ConnectionStringType = "SQLAzure"
	ConnectionStringTypeSQLServer       ConnectionStringType = "SQLServer"
	ConnectionStringTypeMySQL           ConnectionStringType = "MySql"
	ConnectionStringTypePostgreSQL      ConnectionStringType = "PostgreSQL"
	ConnectionStringTypeCustom          ConnectionStringType = "Custom"
	ConnectionStringTypeServiceBus      ConnectionStringType = "ServiceBus"
	ConnectionStringTypeEventHub        ConnectionStringType = "EventHub"
	ConnectionStringTypeAPIHub          ConnectionStringType = "ApiHub"
	ConnectionStringTypeDocDB           ConnectionStringType = "DocDb"
	ConnectionStringTypeRedisCache      ConnectionStringType = "RedisCache"
	ConnectionStringTypeNotificationHub ConnectionStringType = "NotificationHub"
)

type SSLState string

const (
	SSLStateDisabled       SSLState = "Disabled"
	SSLStateSniEnabled     SSLState = "SniEnabled"
	SSLStateIPBasedEnabled SSLState = "IpBasedEnabled"
)
