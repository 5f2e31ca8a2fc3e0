package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Environment tags log entries with the deployment stage (fat, uat, pro).
	Environment string `mapstructure:"environment" default:"fat"`
}

const (
	EnvironmentFAT = "fat"
	EnvironmentUAT = "uat"
	EnvironmentPRO = "pro"
)

// IsValidEnvironment checks if the configured environment is valid.
func (c Config) IsValidEnvironment() bool {
	switch c.Environment {
	case EnvironmentFAT, EnvironmentUAT, EnvironmentPRO:
		return true
	default:
		return false
	}
}
