// Package http contains the HTTP handlers for the REST API.
//
// Handlers translate between HTTP and the service layer: they decode
// and validate requests, call services with the request context, and
// render JSON responses. Errors flow through the shared ErrorHandler,
// which maps them to RFC 7807 problem responses.
//
// Routes:
//
//	POST   /api/upload                      - upload a CSV and get its analysis
//	GET    /api/files                       - list stored uploads
//	GET    /api/files/{filename}            - download a stored upload
//	DELETE /api/files/{filename}            - delete a stored upload
//	GET    /api/files/{filename}/analysis   - re-run analysis on a stored upload
//	GET    /api/files/{filename}/report     - Excel report for a stored upload
//	GET    /api/health                      - liveness
//	GET    /api/health/ready                - readiness
//	GET    /api/version                     - build version
package http
