// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings, such as the listen
// port, the API key that protects the endpoints, the base path the API is
// mounted under, and the port of the Prometheus metrics endpoint.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the middleware to decide whether authentication is enforced.
package server
