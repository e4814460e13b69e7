package config

const (
	// EnvPrefix is applied to every environment variable the service reads.
	EnvPrefix = "CATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
