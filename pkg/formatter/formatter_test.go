package formatter

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/config"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/sorter"
)

const unsortedSource = `// header
import { useState } from "react"
import "./styles.css"
import helper from "../utils/helper"
import fs from "fs"
import local from "src/local"
import sibling from "./sibling"

export const x = 1
`

const sortedSource = `// header
import { useState } from "react"
import fs from "fs"

import local from "src/local"

import helper from "../utils/helper"

import sibling from "./sibling"

import "./styles.css"

export const x = 1
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newProject creates a package.json declaring react and returns its directory.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": {"react": "^18.0.0"}}`)
	return dir
}

func TestSort(t *testing.T) {
	dir := newProject(t)
	filePath := filepath.Join(dir, "src", "app.ts")

	t.Run("groups imports", func(t *testing.T) {
		req := require.New(t)
		got, err := Sort(context.Background(), unsortedSource, filePath, config.Defaults())
		req.NoError(err)
		req.Equal(sortedSource, got)
	})

	t.Run("sorted input is unchanged", func(t *testing.T) {
		req := require.New(t)
		got, err := Sort(context.Background(), sortedSource, filePath, config.Defaults())
		req.NoError(err)
		req.Equal(sortedSource, got)
	})

	t.Run("leading location and crlf", func(t *testing.T) {
		req := require.New(t)
		options := config.Defaults()
		options.ImportLocation = extractor.LocationLeading
		options.EndOfLine = extractor.EndOfLineCRLF
		options.Groups = []sorter.Group{{Name: sorter.GroupGlobal, Alg: sorter.AlgNatural}}

		src := "'use client'\nimport b from \"react\"\nimport a from \"./a\"\n"
		got, err := Sort(context.Background(), src, filePath, options)
		req.NoError(err)
		req.Equal("import b from \"react\"\r\n\r\nimport a from \"./a\"\r\n\r\n'use client'\n", got)
	})

	t.Run("builtins as local imports", func(t *testing.T) {
		req := require.New(t)
		options := config.Defaults()
		options.BuiltinsAsDependencies = false
		options.Groups = []sorter.Group{{Name: sorter.GroupGlobal, Alg: sorter.AlgPersist}}

		src := "import fs from \"node:fs\"\nimport React from \"react\"\n"
		got, err := Sort(context.Background(), src, filePath, options)
		req.NoError(err)
		req.Equal("import React from \"react\"\n\nimport fs from \"node:fs\"\n\n", got)
	})

	t.Run("imports sharing a line", func(t *testing.T) {
		req := require.New(t)
		tests := []struct {
			src  string
			want string
		}{
			{
				src:  "import a from \"react\"; import fs from \"fs\"\n\nfoo()\n",
				want: "import a from \"react\";\nimport fs from \"fs\"\n\nfoo()\n",
			},
			{
				src:  "import b from \"./b\"; import a from \"react\"\n\nfoo()\n",
				want: "import a from \"react\"\n\nimport b from \"./b\";\n\nfoo()\n",
			},
		}
		for _, tt := range tests {
			got, err := Sort(context.Background(), tt.src, filePath, config.Defaults())
			req.NoError(err)
			req.Equal(tt.want, got)

			again, err := Sort(context.Background(), got, filePath, config.Defaults())
			req.NoError(err)
			req.Equal(got, again)
		}
	})

	t.Run("imports at end of file", func(t *testing.T) {
		req := require.New(t)
		got, err := Sort(context.Background(), "foo()\nimport a from \"react\"", filePath, config.Defaults())
		req.NoError(err)
		req.Equal("foo()\nimport a from \"react\"\n", got)
	})

	t.Run("no imports", func(t *testing.T) {
		req := require.New(t)
		src := "export const x = 1\n"
		got, err := Sort(context.Background(), src, filePath, config.Defaults())
		req.NoError(err)
		req.Equal(src, got)
	})

	t.Run("unsupported file", func(t *testing.T) {
		req := require.New(t)
		_, err := Sort(context.Background(), "a {}", filepath.Join(dir, "style.css"), config.Defaults())
		req.Error(err)
		req.Contains(err.Error(), errors.ErrMsgUnsupportedFile)
	})

	t.Run("syntax errors", func(t *testing.T) {
		req := require.New(t)
		src := "import { a from 'a'\n"
		got, err := Sort(context.Background(), src, filePath, config.Defaults())
		req.True(stderrors.Is(err, errors.ErrSyntax))
		req.Equal(src, got)
	})
}

func TestSort_configuration(t *testing.T) {
	t.Run("missing tsconfig leaves text unchanged", func(t *testing.T) {
		req := require.New(t)
		options := config.Defaults()
		options.Resolver = config.ResolverOptions{Type: config.ResolverFS, ConfigName: "tsconfig.tig-missing.json"}

		got, err := Sort(context.Background(), unsortedSource, filepath.Join(t.TempDir(), "app.ts"), options)
		req.NoError(err)
		req.Equal(unsortedSource, got)
	})

	t.Run("malformed package.json leaves text unchanged", func(t *testing.T) {
		req := require.New(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": `)

		got, err := Sort(context.Background(), unsortedSource, filepath.Join(dir, "app.ts"), config.Defaults())
		req.NoError(err)
		req.Equal(unsortedSource, got)
	})

	t.Run("unknown resolver leaves text unchanged", func(t *testing.T) {
		req := require.New(t)
		options := config.Defaults()
		options.Resolver.Type = "webpack"

		got, err := Sort(context.Background(), unsortedSource, filepath.Join(newProject(t), "app.ts"), options)
		req.NoError(err)
		req.Equal(unsortedSource, got)
	})

	t.Run("fs resolver with aliases", func(t *testing.T) {
		req := require.New(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "tsconfig.json"), `{
			// jsonc is accepted
			"compilerOptions": {"baseUrl": ".", "paths": {"@/*": ["src/*"]}}
		}`)
		writeFile(t, filepath.Join(dir, "src", "components", "button.tsx"), "export default 1\n")
		writeFile(t, filepath.Join(dir, "src", "util.ts"), "export default 1\n")

		options := config.Defaults()
		options.Resolver = config.ResolverOptions{Type: config.ResolverFS}
		src := strings.Join([]string{
			`import Button from "@/components/button"`,
			`import lodash from "lodash"`,
			`import util from "src/util"`,
			`import missing from "src/missing"`,
			``,
		}, "\n")

		got, err := Sort(context.Background(), src, filepath.Join(dir, "src", "app.tsx"), options)
		req.NoError(err)
		req.Equal(strings.Join([]string{
			`import lodash from "lodash"`,
			`import missing from "src/missing"`,
			``,
			`import Button from "@/components/button"`,
			`import util from "src/util"`,
			``,
			``,
		}, "\n"), got)
	})
}

func TestFormatter_ProcessFile(t *testing.T) {
	dir := newProject(t)
	testFile := filepath.Join(dir, "src", "app.ts")

	t.Run("print to output", func(t *testing.T) {
		req := require.New(t)
		writeFile(t, testFile, unsortedSource)
		var out bytes.Buffer

		err := New(FormatterConfig{FilePath: testFile, Output: &out}).ProcessFile()
		req.NoError(err)
		req.Equal(sortedSource, out.String())

		content, err := os.ReadFile(testFile)
		req.NoError(err)
		req.Equal(unsortedSource, string(content))
	})

	t.Run("check unsorted file", func(t *testing.T) {
		req := require.New(t)
		writeFile(t, testFile, unsortedSource)

		err := New(FormatterConfig{FilePath: testFile, Check: true}).ProcessFile()
		req.True(stderrors.Is(err, errors.ErrUnsorted))
	})

	t.Run("process file in place", func(t *testing.T) {
		req := require.New(t)
		writeFile(t, testFile, unsortedSource)

		err := New(FormatterConfig{FilePath: testFile, InPlace: true}).ProcessFile()
		req.NoError(err)

		content, err := os.ReadFile(testFile)
		req.NoError(err)
		req.Equal(sortedSource, string(content))

		err = New(FormatterConfig{FilePath: testFile, Check: true}).ProcessFile()
		req.NoError(err)
	})

	t.Run("options file and override", func(t *testing.T) {
		req := require.New(t)
		writeFile(t, filepath.Join(dir, ".tigrc.yaml"), "importLocation: leading\ngroups:\n  - [static, persist]\n")
		defer os.Remove(filepath.Join(dir, ".tigrc.yaml"))
		src := "const a = 1\nimport \"./styles.css\"\nimport React from \"react\"\n"
		writeFile(t, testFile, src)
		var out bytes.Buffer

		err := New(FormatterConfig{
			FilePath: testFile,
			Output:   &out,
			Override: func(options *config.Options) {
				options.EndOfLine = extractor.EndOfLineLF
			},
		}).ProcessFile()
		req.NoError(err)
		req.Equal("import \"./styles.css\"\n\nimport React from \"react\"\n\nconst a = 1\n", out.String())
	})

	t.Run("invalid explicit options file", func(t *testing.T) {
		req := require.New(t)
		optionsPath := filepath.Join(t.TempDir(), "tig.json")
		writeFile(t, optionsPath, `{"importLocation": "bottom"}`)
		writeFile(t, testFile, unsortedSource)

		err := New(FormatterConfig{FilePath: testFile, ConfigPath: optionsPath}).ProcessFile()
		req.Error(err)
		req.Contains(err.Error(), errors.ErrMsgFailedToResolveOptions)
	})

	t.Run("process non-existent file", func(t *testing.T) {
		req := require.New(t)
		err := New(FormatterConfig{FilePath: "/non/existent/file.ts", InPlace: true}).ProcessFile()
		req.Error(err)
	})
}

func TestFormatter_ProcessPath(t *testing.T) {
	setup := func(t *testing.T) string {
		dir := newProject(t)
		writeFile(t, filepath.Join(dir, "src", "unsorted.ts"), unsortedSource)
		writeFile(t, filepath.Join(dir, "src", "sorted.tsx"), sortedSource)
		writeFile(t, filepath.Join(dir, "src", "generated", "api.ts"), unsortedSource)
		writeFile(t, filepath.Join(dir, "node_modules", "react", "index.js"), unsortedSource)
		writeFile(t, filepath.Join(dir, ".tigrc.json"), `{"exclude": ["src/generated/**"]}`)
		return dir
	}

	t.Run("check directory", func(t *testing.T) {
		req := require.New(t)
		dir := setup(t)
		var out bytes.Buffer

		err := New(FormatterConfig{Check: true, Output: &out}).ProcessPath(dir)
		req.True(stderrors.Is(err, errors.ErrUnsorted))
		req.Contains(out.String(), "Found 2 source files")
		req.Contains(out.String(), "Not sorted: "+filepath.Join(dir, "src", "unsorted.ts"))
		req.NotContains(out.String(), "sorted.tsx\n")
	})

	t.Run("in place directory", func(t *testing.T) {
		req := require.New(t)
		dir := setup(t)
		var out bytes.Buffer

		err := New(FormatterConfig{InPlace: true, Output: &out}).ProcessPath(dir)
		req.NoError(err)
		req.Contains(out.String(), "Processed 2 files successfully")

		content, err := os.ReadFile(filepath.Join(dir, "src", "unsorted.ts"))
		req.NoError(err)
		req.Equal(sortedSource, string(content))

		generated, err := os.ReadFile(filepath.Join(dir, "src", "generated", "api.ts"))
		req.NoError(err)
		req.Equal(unsortedSource, string(generated))
	})

	t.Run("directory without in-place", func(t *testing.T) {
		req := require.New(t)
		dir := setup(t)
		var out bytes.Buffer

		err := New(FormatterConfig{Output: &out}).ProcessPath(dir)
		req.NoError(err)
		req.Contains(out.String(), errors.WarnMsgProcessingDirWithoutInPlace)
	})

	t.Run("empty directory", func(t *testing.T) {
		req := require.New(t)
		var out bytes.Buffer
		dir := t.TempDir()

		err := New(FormatterConfig{InPlace: true, Output: &out}).ProcessPath(dir)
		req.NoError(err)
		req.Contains(out.String(), "No source files found")
	})

	t.Run("missing path", func(t *testing.T) {
		req := require.New(t)
		err := New(FormatterConfig{}).ProcessPath("/non/existent/dir")
		req.Error(err)
		req.Contains(err.Error(), errors.ErrMsgFailedToCheckPath)
	})

	t.Run("single file", func(t *testing.T) {
		req := require.New(t)
		dir := setup(t)
		var out bytes.Buffer

		err := New(FormatterConfig{Output: &out}).ProcessPath(filepath.Join(dir, "src", "unsorted.ts"))
		req.NoError(err)
		req.Equal(sortedSource, out.String())
	})
}
