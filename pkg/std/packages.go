package std

import (
	"sort"
	"strings"
)

// NodePrefix is the scheme Node.js accepts in front of builtin module names.
const NodePrefix = "node:"

// StandardPackages lists the top-level Node.js builtin modules (module.builtinModules
// without private `_` modules and subpaths).
var StandardPackages = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"test":                false, // only reachable as node:test
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}

// IsStandardPackage reports whether importPath names a Node.js builtin module,
// with or without the node: prefix and including subpaths such as fs/promises.
func IsStandardPackage(importPath string) bool {
	name, prefixed := strings.CutPrefix(importPath, NodePrefix)
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	builtin, known := StandardPackages[name]
	if prefixed {
		return known
	}
	return builtin
}

// Names returns every builtin in both bare and node: prefixed form, sorted.
// The result is suitable as a dependency list for prefix matching.
func Names() []string {
	names := make([]string, 0, len(StandardPackages)*2)
	for name, bare := range StandardPackages {
		if bare {
			names = append(names, name)
		}
		names = append(names, NodePrefix+name)
	}
	sort.Strings(names)
	return names
}
