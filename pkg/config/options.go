package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/pelletier/go-toml/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/sorter"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/utils"
)

// ResolverType selects how local imports are recognized.
type ResolverType string

const (
	// ResolverFS resolves targets through tsconfig.json baseUrl and paths.
	ResolverFS ResolverType = "fs"
	// ResolverPackage treats everything not declared in package.json as local.
	ResolverPackage ResolverType = "package"
)

// OptionsFileNames are searched, in order, in every directory from the source file upward.
var OptionsFileNames = []string{".tigrc.yaml", ".tigrc.yml", ".tigrc.toml", ".tigrc.json"}

const optionsSchemaURL = "mem://schemas/options.schema.json"

//go:embed options.schema.json
var optionsSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ResolverOptions configures the resolver.
type ResolverOptions struct {
	Type ResolverType
	// ConfigName is the tsconfig file name searched by the fs resolver.
	ConfigName string
}

// Options is the complete set of sorting options.
type Options struct {
	Resolver               ResolverOptions
	ImportCommentMode      extractor.CommentMode
	ImportLocation         extractor.Location
	Groups                 []sorter.Group
	SplitRelativeGroups    bool
	RelativeSortAlg        sorter.RelativeSortAlg
	SplitLocalPattern      string
	EndOfLine              extractor.EndOfLine
	BuiltinsAsDependencies bool
	Exclude                []string
}

// Defaults returns the options used when nothing is configured.
func Defaults() Options {
	return Options{
		Resolver:          ResolverOptions{Type: ResolverPackage, ConfigName: DefaultTSConfigName},
		ImportCommentMode: extractor.CommentPrevLine,
		ImportLocation:    extractor.LocationAuto,
		Groups: []sorter.Group{
			{Name: sorter.GroupGlobal, Alg: sorter.AlgPersist},
			{Name: sorter.GroupLocal, Alg: sorter.AlgPersist},
			{Name: sorter.GroupRelative, Alg: sorter.AlgPersist},
			{Name: sorter.GroupStatic, Alg: sorter.AlgPersist},
			{Name: sorter.GroupRest, Alg: sorter.AlgPersist},
		},
		SplitRelativeGroups:    true,
		RelativeSortAlg:        sorter.DeepestFirst,
		EndOfLine:              extractor.EndOfLineAuto,
		BuiltinsAsDependencies: true,
	}
}

// ExtractorOptions returns the options of the span extractor.
func (o Options) ExtractorOptions() extractor.Options {
	return extractor.Options{CommentMode: o.ImportCommentMode, EndOfLine: o.EndOfLine}
}

// SorterOptions returns the options of the sorter.
func (o Options) SorterOptions() sorter.Options {
	return sorter.Options{
		Groups:              o.Groups,
		SplitRelativeGroups: o.SplitRelativeGroups,
		RelativeSortAlg:     o.RelativeSortAlg,
		SplitLocalPattern:   o.SplitLocalPattern,
	}
}

// TSConfigName returns the configured tsconfig name or the default one.
func (o Options) TSConfigName() string {
	if o.Resolver.ConfigName == "" {
		return DefaultTSConfigName
	}
	return o.Resolver.ConfigName
}

type rawResolver struct {
	Type       *string `json:"type"`
	ConfigName *string `json:"configName"`
}

// rawOptions mirrors the options file. Nil fields keep the defaults.
type rawOptions struct {
	Resolver               *rawResolver `json:"resolver"`
	ImportCommentMode      *string      `json:"importCommentMode"`
	ImportLocation         *string      `json:"importLocation"`
	Groups                 [][]string   `json:"groups"`
	SplitRelativeGroups    *bool        `json:"splitRelativeGroups"`
	RelativeSortAlg        *string      `json:"relativeSortAlg"`
	SplitLocalPattern      *string      `json:"splitLocalPattern"`
	EndOfLine              *string      `json:"endOfLine"`
	BuiltinsAsDependencies *bool        `json:"builtinsAsDependencies"`
	Exclude                []string     `json:"exclude"`
}

func (r *rawOptions) apply(options Options) Options {
	if r.Resolver != nil {
		if r.Resolver.Type != nil {
			options.Resolver.Type = ResolverType(*r.Resolver.Type)
		}
		if r.Resolver.ConfigName != nil {
			options.Resolver.ConfigName = *r.Resolver.ConfigName
		}
	}
	if r.ImportCommentMode != nil {
		options.ImportCommentMode = extractor.CommentMode(*r.ImportCommentMode)
	}
	if r.ImportLocation != nil {
		options.ImportLocation = extractor.Location(*r.ImportLocation)
	}
	if r.Groups != nil {
		options.Groups = make([]sorter.Group, 0, len(r.Groups))
		for _, group := range r.Groups {
			if len(group) != 2 {
				continue
			}
			options.Groups = append(options.Groups, sorter.Group{
				Name: sorter.GroupName(group[0]),
				Alg:  sorter.Algorithm(group[1]),
			})
		}
	}
	if r.SplitRelativeGroups != nil {
		options.SplitRelativeGroups = *r.SplitRelativeGroups
	}
	if r.RelativeSortAlg != nil {
		options.RelativeSortAlg = sorter.RelativeSortAlg(*r.RelativeSortAlg)
	}
	if r.SplitLocalPattern != nil {
		options.SplitLocalPattern = *r.SplitLocalPattern
	}
	if r.EndOfLine != nil {
		options.EndOfLine = extractor.EndOfLine(*r.EndOfLine)
	}
	if r.BuiltinsAsDependencies != nil {
		options.BuiltinsAsDependencies = *r.BuiltinsAsDependencies
	}
	if r.Exclude != nil {
		options.Exclude = r.Exclude
	}
	return options
}

// FindOptionsFile returns the nearest options file above searchPath.
func FindOptionsFile(searchPath string) (string, bool) {
	return utils.FindUp(searchPath, OptionsFileNames...)
}

// LoadOptions reads an options file, validates it and overlays it on Defaults.
// The format follows the extension: YAML, TOML, or JSON with comments.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadConfig, path, err)
	}
	return ParseOptions(path, data)
}

// ParseOptions decodes options file content; path only selects the format.
func ParseOptions(path string, data []byte) (Options, error) {
	doc, err := toJSON(path, data)
	if err != nil {
		return Options{}, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseConfig, path, err)
	}

	if err := validateOptions(doc); err != nil {
		return Options{}, fmt.Errorf("%s %s: %w", errors.ErrMsgInvalidConfig, path, err)
	}

	var raw rawOptions
	if err := json.Unmarshal(doc, &raw); err != nil {
		return Options{}, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseConfig, path, err)
	}
	return raw.apply(Defaults()), nil
}

// toJSON normalizes every supported format into a JSON document.
func toJSON(path string, data []byte) ([]byte, error) {
	var doc map[string]any

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".json":
		clean := bytes.TrimSpace(jsonc.ToJSON(data))
		if len(clean) == 0 {
			return []byte("{}"), nil
		}
		return clean, nil
	default:
		return nil, fmt.Errorf("%s %q", errors.ErrMsgUnsupportedConfigType, ext)
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}

func optionsSchemaValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(optionsSchema))
		if err != nil {
			compileErr = fmt.Errorf("%s: %w", errors.ErrMsgFailedToCompileSchema, err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(optionsSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("%s: %w", errors.ErrMsgFailedToCompileSchema, err)
			return
		}
		compiledSchema, compileErr = c.Compile(optionsSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("%s: %w", errors.ErrMsgFailedToCompileSchema, compileErr)
		}
	})
	return compiledSchema, compileErr
}

func validateOptions(doc []byte) error {
	schema, err := optionsSchemaValidator()
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return err
	}
	return schema.Validate(instance)
}
