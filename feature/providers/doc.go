// Package providers exposes the provider catalog over HTTP.
//
// It lists the configured storage providers, probes a provider's backend
// for connectivity, and flushes the backend cache after config changes.
// Backend configs (paths, credentials) are stored in the catalog but never
// leave the server.
//
// # Components
//
//   - Service: Reads provider records and resolves backends through the registry.
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET  /providers                   : All provider records.
//   - GET  /providers/:providerID/test  : Probe backend connectivity.
//   - POST /providers/refresh           : Drop cached backend instances.
package providers
