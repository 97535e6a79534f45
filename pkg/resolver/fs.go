package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSParams carries the project resolution parameters, usually derived from tsconfig.json.
type FSParams struct {
	// BaseURL is the directory non-relative imports resolve from. Relative values
	// are taken from the root path.
	BaseURL string
	// Aliases maps an import prefix to candidate directories.
	Aliases map[string][]string
	// Extensions are tried, in order, for targets without an extension.
	Extensions []string
}

// FSOption configures an FSResolver.
type FSOption func(*FSResolver)

// WithFileExists replaces the file existence probe.
func WithFileExists(fn func(path string) bool) FSOption {
	return func(r *FSResolver) {
		r.fileExistsFn = fn
	}
}

// FSResolver classifies imports by probing the file system.
type FSResolver struct {
	rootPath     string
	params       FSParams
	aliasKeys    []string
	fileExistsFn func(path string) bool
}

// NewFSResolver creates a resolver rooted at rootPath, the directory of the project configuration.
func NewFSResolver(rootPath string, params FSParams, opts ...FSOption) *FSResolver {
	r := &FSResolver{
		rootPath:     rootPath,
		params:       params,
		fileExistsFn: statExists,
	}
	for alias := range params.Aliases {
		r.aliasKeys = append(r.aliasKeys, alias)
	}
	sort.Strings(r.aliasKeys)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsLocal reports whether path is relative, aliased, or resolvable from the base URL.
func (r *FSResolver) IsLocal(path string) bool {
	if isRelative(path) {
		return true
	}

	if r.IsAliased(path) {
		return true
	}

	if r.params.BaseURL != "" {
		if r.fileExists(filepath.Join(r.baseURL(), path)) {
			return true
		}
	}

	return false
}

// IsAliased reports whether path starts with a configured alias and one of the
// alias candidates holds the remainder of the path.
func (r *FSResolver) IsAliased(path string) bool {
	for _, alias := range r.aliasKeys {
		if !strings.HasPrefix(path, alias) {
			continue
		}
		rest := path[len(alias):]
		for _, candidate := range r.params.Aliases[alias] {
			if r.fileExists(r.resolvePath(candidate, rest)) {
				return true
			}
		}
	}
	return false
}

// GetExtension returns the extension of path.
func (r *FSResolver) GetExtension(path string) string {
	return Extension(path)
}

func (r *FSResolver) baseURL() string {
	if filepath.IsAbs(r.params.BaseURL) {
		return r.params.BaseURL
	}
	return filepath.Join(r.rootPath, r.params.BaseURL)
}

func (r *FSResolver) resolvePath(base, rest string) string {
	if filepath.IsAbs(base) {
		return filepath.Join(base, rest)
	}
	return filepath.Join(r.rootPath, base, rest)
}

// fileExists probes the path itself, then path/index.<ext> and path.<ext> for
// every extension in order. The first existing candidate wins. A path that
// already has an extension is only probed as is.
func (r *FSResolver) fileExists(path string) bool {
	if r.fileExistsFn(path) {
		return true
	}
	if Extension(filepath.ToSlash(path)) != "" {
		return false
	}
	for _, ext := range r.params.Extensions {
		if r.fileExistsFn(filepath.Join(path, "index."+ext)) {
			return true
		}
		if r.fileExistsFn(path + "." + ext) {
			return true
		}
	}
	return false
}

func statExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
