package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain file", "index.ts", "ts"},
		{"nested file", "src/code/index.ts", "ts"},
		{"parent relative", "../../index.tsx", "tsx"},
		{"multiple dots", "../../index.test.ts", "ts"},
		{"stylesheet", "./static.scss", "scss"},
		{"current dir with slash", "./", ""},
		{"current dir", ".", ""},
		{"parent dir", "..", ""},
		{"no extension", "src/code/index", ""},
		{"parents with slash", "../../", ""},
		{"dot file", "./.env", ""},
		{"dot in directory only", "./lib.v2/index", ""},
		{"package with dot", "lodash.debounce", "debounce"},
	}

	resolvers := map[string]Resolver{
		"fs":      NewFSResolver("./", FSParams{}),
		"package": NewPackageResolver(nil),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.want, Extension(tt.path), "Extension(%q)", tt.path)
			for kind, r := range resolvers {
				req.Equal(tt.want, r.GetExtension(tt.path), "%s GetExtension(%q)", kind, tt.path)
			}
		})
	}
}
