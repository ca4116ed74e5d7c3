// Package runs exposes the comparison run ledger over HTTP.
//
// # HTTP Endpoints
//
//   - GET /runs?limit=n : Lists recorded runs, newest first.
//   - GET /runs/:id : Returns one run, including its rendered summary.
//
// The feature is only loaded when a database is configured.
package runs
