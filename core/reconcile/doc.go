// Package reconcile compares two manifests of the same file tree and classifies
// every path as missing (old only), new (new only) or changed (both sides, with
// a different type, hash or size).
//
// # Architecture
//
// Each side is read by its own scanner goroutine. A scanner looks up every
// record in the other side's table: a hit reconciles the path and removes it,
// a miss parks the record in the scanner's own table until the other side
// reaches it. Once both scanners are exhausted the two tables hold exactly the
// missing and new entries.
//
// # Turn Protocol
//
// The scanners take turns. Each side owns a permit (a channel of capacity one);
// only the permit holder touches the tables and the changed lists, so no other
// lock is needed. After RoundSize records a scanner hands the permit to the
// other side and waits for its own. A scanner that runs out of input marks
// itself finished before handing over, so the survivor then runs unbounded.
//
// Alternating keeps both scanners at roughly the same position in their
// inputs. For two listings of the same tree taken in a similar order, the
// tables then hold only about RoundSize entries plus the real difference,
// rather than one whole manifest.
//
// # Cancellation
//
// Scanners run in an errgroup. The first failure cancels the shared context;
// the other scanner notices within one record, or while waiting for its
// permit, and stops. The first error is returned as an Engine fault.
//
// # Usage Example
//
//	result, err := reconcile.Compare(ctx, oldRecords, newRecords, reconcile.Options{
//	    RoundSize: 10000,
//	    Progress: func(p reconcile.Progress) {
//	        fmt.Printf("\r%d / %d", p.OldLines, p.NewLines)
//	    },
//	})
package reconcile
