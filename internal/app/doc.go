// Package app wires the application together: configuration, logging,
// tracing, metrics, services, middleware, and the chi router, plus the
// HTTP server lifecycle with graceful shutdown.
package app
