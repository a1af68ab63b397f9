// Package config provides configuration management for Media Mirror.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, base path)
//   - Database: catalog database connection details (mysql or sqlite)
//   - Cache: content blob cache directory and size budget
//   - Backend: global storage backend defaults
//   - Sync: sync engine settings
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
