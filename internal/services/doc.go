// Package services contains the business logic layer between the HTTP
// handlers and the dataprocessing core.
//
// AnalysisService runs the CSV analysis pipeline and records metrics
// and trace spans for each run. StorageService manages stored uploads
// through the files.Manager. HealthService reports liveness and
// readiness for the health endpoints.
//
// Services accept context.Context on every operation and return typed
// errors the HTTP layer maps to problem responses.
package services
