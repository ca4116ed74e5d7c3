// Package utils provides small helpers shared by the CLI and the HTTP API:
// parsing manifest sizes and rendering sizes and counts for humans.
package utils
