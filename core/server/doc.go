// Package server holds the HTTP server configuration used by the serve command.
//
// # Configuration
//
// The Config struct defines the HTTP port, the optional API key guarding every
// route except /health, and the request read timeout.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/serve.go when the
// Fiber app is created.
package server
