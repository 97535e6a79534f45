package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/sorter"
)

func TestDefaults(t *testing.T) {
	req := require.New(t)
	options := Defaults()

	req.Equal(ResolverPackage, options.Resolver.Type)
	req.Equal(DefaultTSConfigName, options.TSConfigName())
	req.Equal(extractor.CommentPrevLine, options.ImportCommentMode)
	req.Equal(extractor.LocationAuto, options.ImportLocation)
	req.Len(options.Groups, 5)
	req.Equal(sorter.Group{Name: sorter.GroupRest, Alg: sorter.AlgPersist}, options.Groups[4])
	req.True(options.SplitRelativeGroups)
	req.Equal(sorter.DeepestFirst, options.RelativeSortAlg)
	req.Equal(extractor.EndOfLineAuto, options.EndOfLine)
	req.True(options.BuiltinsAsDependencies)

	req.Equal(extractor.Options{CommentMode: extractor.CommentPrevLine, EndOfLine: extractor.EndOfLineAuto}, options.ExtractorOptions())
	sorterOptions := options.SorterOptions()
	req.Equal(options.Groups, sorterOptions.Groups)
	req.True(sorterOptions.SplitRelativeGroups)
}

func TestParseOptions(t *testing.T) {
	want := Defaults()
	want.Resolver = ResolverOptions{Type: ResolverFS, ConfigName: "tsconfig.app.json"}
	want.ImportCommentMode = extractor.CommentSameLine
	want.Groups = []sorter.Group{
		{Name: sorter.GroupGlobal, Alg: sorter.AlgNatural},
		{Name: sorter.GroupRelative, Alg: sorter.AlgPersist},
	}
	want.SplitRelativeGroups = false
	want.EndOfLine = extractor.EndOfLineCRLF
	want.Exclude = []string{"dist/**"}

	tests := []struct {
		name    string
		path    string
		content string
	}{
		{
			name: "yaml",
			path: ".tigrc.yaml",
			content: `
resolver:
  type: fs
  configName: tsconfig.app.json
importCommentMode: same-line
groups:
  - [global, natural]
  - [relative, persist]
splitRelativeGroups: false
endOfLine: crlf
exclude:
  - "dist/**"
`,
		},
		{
			name: "toml",
			path: ".tigrc.toml",
			content: `
importCommentMode = "same-line"
groups = [["global", "natural"], ["relative", "persist"]]
splitRelativeGroups = false
endOfLine = "crlf"
exclude = ["dist/**"]

[resolver]
type = "fs"
configName = "tsconfig.app.json"
`,
		},
		{
			name: "json with comments",
			path: ".tigrc.json",
			content: `{
	// resolve through tsconfig
	"resolver": {"type": "fs", "configName": "tsconfig.app.json"},
	"importCommentMode": "same-line",
	"groups": [["global", "natural"], ["relative", "persist"]],
	"splitRelativeGroups": false,
	"endOfLine": "crlf",
	"exclude": ["dist/**"]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, err := ParseOptions(tt.path, []byte(tt.content))
			req.NoError(err)
			req.Equal(want, got)
		})
	}
}

func TestParseOptions_empty(t *testing.T) {
	for _, path := range []string{".tigrc.yaml", ".tigrc.toml", ".tigrc.json"} {
		t.Run(path, func(t *testing.T) {
			req := require.New(t)
			got, err := ParseOptions(path, []byte(""))
			req.NoError(err)
			req.Equal(Defaults(), got)
		})
	}
}

func TestParseOptions_errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		errMsg  string
	}{
		{name: "unknown key", path: ".tigrc.yaml", content: "sortOrder: asc\n", errMsg: "invalid config"},
		{name: "bad enum", path: ".tigrc.json", content: `{"importLocation": "trailing"}`, errMsg: "invalid config"},
		{name: "bad group tuple", path: ".tigrc.json", content: `{"groups": [["global"]]}`, errMsg: "invalid config"},
		{name: "unknown group", path: ".tigrc.yaml", content: "groups: [[vendor, natural]]\n", errMsg: "invalid config"},
		{name: "wrong type", path: ".tigrc.toml", content: "splitRelativeGroups = \"yes\"\n", errMsg: "invalid config"},
		{name: "malformed yaml", path: ".tigrc.yml", content: "groups: [global\n", errMsg: "parse config"},
		{name: "malformed toml", path: ".tigrc.toml", content: "groups = [\n", errMsg: "parse config"},
		{name: "unsupported format", path: "tig.ini", content: "a=b", errMsg: "unsupported config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := ParseOptions(tt.path, []byte(tt.content))
			req.Error(err)
			req.Contains(err.Error(), tt.errMsg)
		})
	}
}

func TestFindOptionsFile_LoadOptions(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()
	optionsPath := filepath.Join(tempDir, ".tigrc.yml")
	writeFile(t, optionsPath, "importLocation: leading\n")
	source := filepath.Join(tempDir, "src", "index.ts")
	writeFile(t, source, "")

	found, ok := FindOptionsFile(source)
	req.True(ok)
	req.Equal(optionsPath, found)

	options, err := LoadOptions(found)
	req.NoError(err)
	req.Equal(extractor.LocationLeading, options.ImportLocation)
	req.Equal(Defaults().Groups, options.Groups)

	_, err = LoadOptions(filepath.Join(tempDir, "missing.yaml"))
	req.Error(err)
	req.Contains(err.Error(), "read config")
}
