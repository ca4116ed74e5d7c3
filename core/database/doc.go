// Package database opens the optional database that backs the run ledger.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// from the application's configuration. With the driver set to "none" (the
// default) Connect returns ErrDisabled and runs are simply not recorded.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if errors.Is(err, database.ErrDisabled) {
//	    // no ledger
//	}
package database
