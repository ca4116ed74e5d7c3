// Package diff runs a complete manifest comparison.
//
// A run validates its settings, checks that both inputs exist, refuses to
// overwrite previous output unless asked to, compares the manifests, writes
// the four output files, optionally publishes them to object storage and
// finally records the run in the history ledger.
//
// Argument and pre-flight failures happen before any input is read. No output
// file is written unless the comparison and the summary both succeed.
//
// # Usage
//
//	svc := diff.NewService(storageClient, historyStore, log)
//	out, err := svc.Run(ctx, diff.Request{
//	    OldLocation: "root_filelist.dat",
//	    NewLocation: "root_filelist2.dat",
//	    OutputDir:   "diff",
//	    Settings:    cfg.Compare,
//	})
//	fmt.Print(out.Summary)
package diff
