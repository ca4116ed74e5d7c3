package manifest

import (
	"fmt"
	"strings"

	"filelist-diff/core/fault"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter drops entries whose path matches one of its glob patterns.
// A pattern ending in "/" matches a directory and everything below it.
// A nil Filter excludes nothing.
type Filter struct {
	patterns []string
}

// NewFilter validates patterns and returns a Filter, or nil when there are none.
func NewFilter(patterns []string) (*Filter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	f := &Filter{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		if p == "" || !doublestar.ValidatePattern(p) {
			return nil, fault.NewArgument("exclude", "", fmt.Errorf("%w: bad pattern %q", fault.ErrInvalidArgument, p))
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// Excluded reports whether path matches any pattern.
func (f *Filter) Excluded(path string) bool {
	if f == nil {
		return false
	}
	path = strings.TrimPrefix(path, "/")
	for _, pattern := range f.patterns {
		pattern = strings.TrimPrefix(pattern, "/")
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if matchDir(dir, path) {
				return true
			}
			continue
		}
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// matchDir reports whether path or one of its parent directories matches dir.
func matchDir(dir, path string) bool {
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' {
			continue
		}
		if matched, _ := doublestar.Match(dir, path[:i]); matched {
			return true
		}
	}
	return false
}
