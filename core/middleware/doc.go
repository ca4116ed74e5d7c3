// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: Validates the X-API-Key header when an API key is configured.
//   - rayid: Assigns a unique Request ID (RayID) to every incoming request,
//     storing it in the context locals and echoing it in the X-Ray-ID header.
//
// RayID must be registered first so that every log line, including auth
// failures, can be correlated.
package middleware
