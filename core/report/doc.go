// Package report turns a comparison result into its four output files and a
// size summary, and optionally publishes the files to object storage.
//
// # Output Files
//
// For inputs old and new, a run writes into its output directory:
//
//	onlyInOld___<old>.txt   entries missing from the new manifest, sorted by path
//	onlyInNew___<new>.txt   entries added in the new manifest, sorted by path
//	changedOld___<old>.txt  old side of every changed entry
//	changedNew___<new>.txt  new side of every changed entry, line-aligned with changedOld
//
// Files are written in manifest format, so they can be compared again.
// Every file is staged in a temporary file and renamed into place once all
// four are complete.
package report
