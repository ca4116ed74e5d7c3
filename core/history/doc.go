// Package history keeps a ledger of comparison runs in the configured database.
//
// Every run, successful or not, is stored with its inputs, round size, timing
// and summary figures. The ledger is optional: a nil *Store accepts records
// and drops them, so the CLI works the same with or without a database.
//
// # Usage
//
//	store := history.NewStore(db)
//	if err := store.Migrate(ctx); err != nil { ... }
//	_ = store.Record(ctx, &history.Run{OldSource: "old.txt", ...})
//	runs, err := store.List(ctx, 20)
package history
