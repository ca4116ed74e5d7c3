package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"filelist-diff/core/fault"
	"filelist-diff/core/manifest"
)

const (
	prefixOnlyOld    = "onlyInOld___"
	prefixOnlyNew    = "onlyInNew___"
	prefixChangedOld = "changedOld___"
	prefixChangedNew = "changedNew___"
	extension        = ".txt"
)

// Paths names the four output files of a run.
type Paths struct {
	Dir        string
	OnlyOld    string
	OnlyNew    string
	ChangedOld string
	ChangedNew string
}

// NewPaths derives output file names from the input locations.
func NewPaths(dir, oldLocation, newLocation string) Paths {
	oldBase := manifest.BaseName(oldLocation)
	newBase := manifest.BaseName(newLocation)
	return Paths{
		Dir:        dir,
		OnlyOld:    filepath.Join(dir, prefixOnlyOld+oldBase+extension),
		OnlyNew:    filepath.Join(dir, prefixOnlyNew+newBase+extension),
		ChangedOld: filepath.Join(dir, prefixChangedOld+oldBase+extension),
		ChangedNew: filepath.Join(dir, prefixChangedNew+newBase+extension),
	}
}

// All returns the four file paths in a fixed order.
func (p Paths) All() []string {
	return []string{p.OnlyOld, p.OnlyNew, p.ChangedOld, p.ChangedNew}
}

// Prepare creates the output directory and refuses to clobber existing
// output files unless overwrite is set. It never deletes anything.
func Prepare(p Paths, overwrite bool) error {
	if info, err := os.Stat(p.Dir); err == nil && !info.IsDir() {
		return fault.NewArgument("prepare", p.Dir, fmt.Errorf("%w: output path is not a directory", fault.ErrInvalidArgument))
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fault.NewResource("prepare", p.Dir, fmt.Errorf("%w: %w", fault.ErrCreate, err))
	}

	for _, path := range p.All() {
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return fault.NewResource("prepare", path, err)
		case info.IsDir():
			return fault.NewArgument("prepare", path, fmt.Errorf("%w: is a directory", fault.ErrOutputExists))
		case !overwrite:
			return fault.NewArgument("prepare", path, fault.ErrOutputExists)
		}
	}
	return nil
}
