package config

const (
	EnvPrefix = "DECKSHARE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
