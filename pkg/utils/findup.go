package utils

import (
	"os"
	"path/filepath"
)

// FindUp looks in searchPath and each of its parents for a file with one of the
// given names. Names are tried in order within each directory, so a nearer file
// always wins. searchPath may be a file, in which case the search starts in its directory.
func FindUp(searchPath string, names ...string) (string, bool) {
	dir, err := filepath.Abs(searchPath)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
