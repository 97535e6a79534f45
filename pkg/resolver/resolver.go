// Package resolver decides whether an import target belongs to the current
// project and extracts the file extension of a target.
package resolver

import "strings"

// Resolver classifies import targets.
type Resolver interface {
	// IsLocal reports whether path resolves within the current project.
	IsLocal(path string) bool
	// GetExtension returns the extension of path without the dot.
	GetExtension(path string) string
}

// Extension returns the substring after the last dot of the final path segment.
// Segments without a dot, or whose only dot is the first character (".", "..",
// ".env"), and paths ending with a slash have no extension.
func Extension(path string) string {
	segment := path[strings.LastIndexByte(path, '/')+1:]
	idx := strings.LastIndexByte(segment, '.')
	if idx <= 0 {
		return ""
	}
	if strings.Trim(segment, ".") == "" {
		return ""
	}
	return segment[idx+1:]
}

func isRelative(path string) bool {
	return strings.HasPrefix(path, ".")
}
