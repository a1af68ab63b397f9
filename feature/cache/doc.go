// Package cache exposes the content cache over HTTP.
//
// # HTTP Endpoints
//
//   - GET    /cache/stats : Blob count, size on disk and configured limit.
//   - POST   /cache/evict : LRU-evict down to a target size.
//   - DELETE /cache       : Drop every cached blob.
package cache
