package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/syntax"
)

// skippedDirs are never descended into when walking a directory.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// IsSourceFile checks if a file is a JavaScript or TypeScript source file
func IsSourceFile(filename string) bool {
	return syntax.IsSupportedFile(filename)
}

// ValidateExcludes reports the first malformed exclude glob
func ValidateExcludes(excludes []string) error {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%s: %q", errors.ErrMsgInvalidExcludePattern, pattern)
		}
	}
	return nil
}

// IsExcluded checks if a slash-separated path relative to the walk root matches any exclude glob
func IsExcluded(rel string, excludes []string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pattern := range excludes {
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// FindSourceFiles recursively finds all source files in a directory, skipping
// dependency and hidden directories and anything matching excludes. The result is sorted.
func FindSourceFiles(root string, excludes []string) ([]string, error) {
	if err := ValidateExcludes(excludes); err != nil {
		return nil, err
	}

	var sourceFiles []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if skippedDirs[name] || strings.HasPrefix(name, ".") || IsExcluded(rel, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsSourceFile(d.Name()) && !IsExcluded(rel, excludes) {
			sourceFiles = append(sourceFiles, path)
		}
		return nil
	})

	sort.Strings(sourceFiles)
	return sourceFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
