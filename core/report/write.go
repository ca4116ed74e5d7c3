package report

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"filelist-diff/core/fault"
	"filelist-diff/core/manifest"
	"filelist-diff/core/reconcile"
)

// Write stores res under p. Tables are sorted by path; changed lists keep
// their pairing order.
//
// All four files are staged as temporary files before any is renamed into
// place, so a failure while writing leaves no output. Renames are not atomic
// as a group: if one fails, the files renamed before it stay in place.
func Write(p Paths, res *reconcile.Result, delim rune) error {
	outputs := []struct {
		path    string
		entries []manifest.Entry
	}{
		{p.OnlyOld, sortedEntries(res.OnlyOld)},
		{p.OnlyNew, sortedEntries(res.OnlyNew)},
		{p.ChangedOld, res.ChangedOld},
		{p.ChangedNew, res.ChangedNew},
	}

	staged := make([]string, 0, len(outputs))
	committed := false
	defer func() {
		if committed {
			return
		}
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	for _, out := range outputs {
		tmp, err := stage(out.path, out.entries, delim)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	// Commit in order. Staged files not yet renamed are removed on failure.
	for i, out := range outputs {
		if err := os.Rename(staged[i], out.path); err != nil {
			return fault.NewResource("write", out.path, fmt.Errorf("%w: %w", fault.ErrCreate, err))
		}
	}
	committed = true
	return nil
}

// stage writes entries to a temporary file next to path and returns its name.
func stage(path string, entries []manifest.Entry, delim rune) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".filelist-diff-*")
	if err != nil {
		return "", fault.NewResource("write", path, fmt.Errorf("%w: %w", fault.ErrCreate, err))
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriterSize(tmp, 256*1024)
	for _, e := range entries {
		if _, err = w.WriteString(manifest.FormatEntry(e, delim)); err != nil {
			break
		}
		if err = w.WriteByte('\n'); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fault.NewResource("write", path, err)
	}
	return tmpPath, nil
}

func sortedEntries(table map[string]manifest.Entry) []manifest.Entry {
	entries := make([]manifest.Entry, 0, len(table))
	for _, path := range slices.Sorted(maps.Keys(table)) {
		entries = append(entries, table[path])
	}
	return entries
}
