// Package config discovers and loads the project files the resolvers are built
// from, and the tool options file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/resolver"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/utils"
)

const (
	// DefaultTSConfigName is searched by the fs resolver unless configured otherwise.
	DefaultTSConfigName = "tsconfig.json"
	// PackageJSONName is searched by the package resolver.
	PackageJSONName = "package.json"
)

// FindConfigFile walks upward from searchPath looking for name.
func FindConfigFile(name, searchPath string) (string, bool) {
	return utils.FindUp(searchPath, name)
}

type compilerOptions struct {
	BaseURL *string             `json:"baseUrl"`
	Paths   map[string][]string `json:"paths"`
}

type rawTSConfig struct {
	Extends         json.RawMessage `json:"extends"`
	CompilerOptions compilerOptions `json:"compilerOptions"`
}

// TSConfig holds the resolution settings of a tsconfig.json after its extends
// chain has been applied.
type TSConfig struct {
	// Path is the absolute path of the loaded file.
	Path string
	// BaseURL is absolute, or empty when no file of the chain sets it.
	BaseURL string
	// Paths is the mapping of the nearest file declaring one.
	Paths map[string][]string
	// PathsBase is the directory of the file that declared Paths.
	PathsBase string
}

// Dir returns the directory of the loaded file.
func (c *TSConfig) Dir() string {
	return filepath.Dir(c.Path)
}

// AliasTable returns Paths with the trailing wildcard removed from keys and
// targets, and targets made absolute against BaseURL, or PathsBase when BaseURL
// is unset. A catch-all "*" key is dropped since it would match every import.
func (c *TSConfig) AliasTable() map[string][]string {
	if len(c.Paths) == 0 {
		return nil
	}

	base := c.BaseURL
	if base == "" {
		base = c.PathsBase
	}

	table := make(map[string][]string, len(c.Paths))
	for key, targets := range c.Paths {
		alias := strings.TrimSuffix(key, "*")
		if alias == "" {
			continue
		}
		for _, target := range targets {
			target = strings.TrimSuffix(target, "*")
			if !filepath.IsAbs(target) {
				target = filepath.Join(base, target)
			}
			table[alias] = append(table[alias], target)
		}
	}
	return table
}

// FSParams builds the file system resolver parameters.
func (c *TSConfig) FSParams(extensions []string) resolver.FSParams {
	return resolver.FSParams{
		BaseURL:    c.BaseURL,
		Aliases:    c.AliasTable(),
		Extensions: extensions,
	}
}

// LoadTSConfig reads a tsconfig.json, following its extends chain. Later entries
// of an extends list override earlier ones and the file itself overrides them all.
func LoadTSConfig(path string) (*TSConfig, error) {
	return loadTSConfig(path, make(map[string]bool))
}

func loadTSConfig(path string, visiting map[string]bool) (*TSConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadConfig, path, err)
	}
	if visiting[abs] {
		return nil, fmt.Errorf("%s %s", errors.ErrMsgConfigExtendsCycle, abs)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	var raw rawTSConfig
	if err := decodeJSONCFile(abs, &raw); err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)
	config := &TSConfig{Path: abs}

	parents, err := extendsList(raw.Extends)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseConfig, abs, err)
	}
	for _, parent := range parents {
		parentPath, err := resolveExtends(dir, parent)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadConfig, abs, err)
		}
		base, err := loadTSConfig(parentPath, visiting)
		if err != nil {
			return nil, err
		}
		config.inherit(base)
	}

	if raw.CompilerOptions.BaseURL != nil {
		config.BaseURL = *raw.CompilerOptions.BaseURL
		if !filepath.IsAbs(config.BaseURL) {
			config.BaseURL = filepath.Join(dir, config.BaseURL)
		}
	}
	if raw.CompilerOptions.Paths != nil {
		config.Paths = raw.CompilerOptions.Paths
		config.PathsBase = dir
	}
	return config, nil
}

func (c *TSConfig) inherit(base *TSConfig) {
	if base.BaseURL != "" {
		c.BaseURL = base.BaseURL
	}
	if base.Paths != nil {
		c.Paths = base.Paths
		c.PathsBase = base.PathsBase
	}
}

// extendsList accepts both the string and the array form of extends.
func extendsList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("extends must be a string or a list of strings: %w", err)
	}
	return list, nil
}

// resolveExtends locates an extended configuration. Relative and absolute
// specifiers are taken from dir, with ".json" appended when needed; anything else
// is looked up in node_modules directories from dir upward.
func resolveExtends(dir, spec string) (string, error) {
	if spec == "" {
		return "", fmt.Errorf("empty extends")
	}

	if filepath.IsAbs(spec) || strings.HasPrefix(spec, ".") {
		candidate := spec
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, spec)
		}
		for _, path := range []string{candidate, candidate + ".json"} {
			if isFile(path) {
				return path, nil
			}
		}
		return "", fmt.Errorf("extends %q not found", spec)
	}

	for current := dir; ; {
		base := filepath.Join(current, "node_modules", filepath.FromSlash(spec))
		for _, path := range []string{base, base + ".json", filepath.Join(base, DefaultTSConfigName)} {
			if isFile(path) {
				return path, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("extends %q not found in node_modules", spec)
		}
		current = parent
	}
}

func decodeJSONCFile(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadConfig, path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), dest); err != nil {
		return fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseConfig, path, err)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
