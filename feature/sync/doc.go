// Package sync exposes the sync engine over HTTP.
//
// It lets clients reconcile a provider's backend listing with the catalog,
// watch the progress of a running sync, preview what a sync would change,
// and cancel an active run.
//
// # Components
//
//   - Service: Thin facade over the core/syncer engine.
//   - Handler: Exposes the HTTP endpoints and maps failed runs to statuses.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST   /sync                      : Sync every enabled provider.
//   - POST   /sync/:providerID         : Sync one provider (options in body).
//   - GET    /sync/:providerID/status  : Snapshot of the active run.
//   - GET    /sync/:providerID/scan    : Preview without mutating anything.
//   - DELETE /sync/:providerID         : Cancel the active run.
//
// A sync rejected because one is already running answers 409, an unknown
// provider answers 404. Other failures answer 200 with success=false so the
// caller always gets the full result body.
package sync
