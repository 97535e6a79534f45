package resolver

import "strings"

// PackageResolver classifies imports against the dependency names of a package
// manifest. It never touches the file system.
type PackageResolver struct {
	dependencies []string
}

// NewPackageResolver creates a resolver for the given dependency names.
func NewPackageResolver(dependencies []string) *PackageResolver {
	return &PackageResolver{dependencies: dependencies}
}

// IsLocal reports whether path is relative or not provided by any dependency.
// Without dependencies every import is local.
func (r *PackageResolver) IsLocal(path string) bool {
	if isRelative(path) {
		return true
	}

	if len(r.dependencies) == 0 {
		return true
	}

	return !r.isGlobal(path)
}

// GetExtension returns the extension of path.
func (r *PackageResolver) GetExtension(path string) string {
	return Extension(path)
}

func (r *PackageResolver) isGlobal(path string) bool {
	for _, dep := range r.dependencies {
		if path == dep || strings.HasPrefix(path, dep+"/") {
			return true
		}
	}
	return false
}
