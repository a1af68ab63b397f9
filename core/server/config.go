package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// BasePath is the prefix under which the API routes are mounted.
	BasePath string `mapstructure:"base_path" default:"/api/v1"`
	// MetricsPort is the port of the Prometheus endpoint. Empty disables it.
	MetricsPort string `mapstructure:"metrics_port" default:"9090"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return listenAddr(c.Port)
}

// MetricsAddr returns the listen address of the metrics endpoint.
func (c Config) MetricsAddr() string {
	return listenAddr(c.MetricsPort)
}

// MetricsEnabled reports whether the metrics endpoint should be served.
func (c Config) MetricsEnabled() bool {
	return c.MetricsPort != ""
}

func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// AuthEnabled reports whether API key validation should be enforced.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}
