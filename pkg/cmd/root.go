package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/config"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/formatter"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/logger"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/sorter"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/version"
)

const (
	UseDescription   = "tig [flags] PATH"
	ShortDescription = "TypeScript imports grouper - A tool to group and sort JS/TS imports"
	LongDescription  = `tig is a command-line tool that groups and sorts the import statements of
JavaScript and TypeScript files without touching any other code.

Imports are classified into groups, in the configured order:
1. global   - packages declared in package.json (or not resolvable in the project)
2. local    - project imports resolved through tsconfig paths/baseUrl
3. relative - "./" and "../" imports, optionally split by depth
4. static   - imports of files with an extension (styles, images, ...)
5. rest     - everything else

Options are read from the nearest .tigrc.yaml, .tigrc.yml, .tigrc.toml or
.tigrc.json, and flags override them.

PATH can be either a single source file or a directory. When a directory is
specified, all .js, .jsx, .mjs, .cjs, .ts, .tsx, .mts and .cts files in it are
processed recursively, skipping node_modules, vendor and hidden directories.`
)

var (
	inPlace           bool
	check             bool
	configPath        string
	resolverType      string
	tsconfigName      string
	commentMode       string
	location          string
	groupSpecs        []string
	splitRelative     bool
	relativeSort      string
	splitLocalPattern string
	endOfLine         string
	builtins          bool
	excludes          []string
	verbose           bool
	debug             bool
	showVersion       bool
)

var rootCmd = &cobra.Command{
	Use:          UseDescription,
	Short:        ShortDescription,
	Long:         LongDescription,
	Args:         validateArgs,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&inPlace, "in-place", false, "Modify files in place instead of printing to stdout")
	flags.BoolVar(&check, "check", false, "Report files whose imports are not sorted and exit with an error")
	flags.StringVar(&configPath, "config", "", "Options file to use instead of the nearest .tigrc.*")
	flags.StringVar(&resolverType, "resolver", string(config.ResolverPackage), "How local imports are detected: fs (tsconfig.json) or package (package.json)")
	flags.StringVar(&tsconfigName, "tsconfig", config.DefaultTSConfigName, "Name of the tsconfig file searched by the fs resolver")
	flags.StringVar(&commentMode, "comment-mode", string(extractor.CommentPrevLine), "Comments moved with an import: none, same-line or prev-line")
	flags.StringVar(&location, "location", string(extractor.LocationAuto), "Where sorted imports are placed: auto or leading")
	flags.StringSliceVar(&groupSpecs, "groups", nil, "Ordered groups as name[:alg] (e.g., global:natural,local,relative,static,rest)")
	flags.BoolVar(&splitRelative, "split-relative", true, "Split relative imports into one group per depth")
	flags.StringVar(&relativeSort, "relative-sort", string(sorter.DeepestFirst), "Order of relative depth groups: deepest-first or shallow-first")
	flags.StringVar(&splitLocalPattern, "split-local-pattern", "", "Regular expression whose last capture group splits local imports")
	flags.StringVar(&endOfLine, "end-of-line", string(extractor.EndOfLineAuto), "Line terminator of inserted imports: auto, lf, cr or crlf")
	flags.BoolVar(&builtins, "builtins", true, "Treat Node.js builtin modules as dependencies with the package resolver")
	flags.StringSliceVar(&excludes, "exclude", nil, "Glob patterns of files to skip when processing a directory")
	flags.BoolVar(&verbose, "verbose", false, "Log configuration discovery to stderr")
	flags.BoolVar(&debug, "debug", false, "Log detailed diagnostics to stderr")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")

	rootCmd.MarkFlagsMutuallyExclusive("in-place", "check")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// If version flag is set, we don't need file arguments
	if showVersion {
		return nil
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		return nil
	}

	switch {
	case debug:
		logger.SetLevel(logger.LevelDebug)
	case verbose:
		logger.SetLevel(logger.LevelInfo)
	}

	override, err := buildOverride(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	g := formatter.New(formatter.FormatterConfig{
		FilePath:   path, // This will be updated for each file when processing directories
		ConfigPath: configPath,
		Override:   override,
		InPlace:    inPlace,
		Check:      check,
		Output:     cmd.OutOrStdout(),
	})
	return g.ProcessPath(path)
}

// buildOverride validates the option flags and returns a function applying the
// explicitly set ones on top of the file options.
func buildOverride(cmd *cobra.Command) (func(*config.Options), error) {
	flags := cmd.Flags()

	choices := []struct {
		flag    string
		value   string
		allowed []string
	}{
		{"resolver", resolverType, []string{string(config.ResolverFS), string(config.ResolverPackage)}},
		{"comment-mode", commentMode, []string{string(extractor.CommentNone), string(extractor.CommentSameLine), string(extractor.CommentPrevLine)}},
		{"location", location, []string{string(extractor.LocationAuto), string(extractor.LocationLeading)}},
		{"relative-sort", relativeSort, []string{string(sorter.ShallowFirst), string(sorter.DeepestFirst)}},
		{"end-of-line", endOfLine, []string{string(extractor.EndOfLineAuto), string(extractor.EndOfLineLF), string(extractor.EndOfLineCR), string(extractor.EndOfLineCRLF)}},
	}
	for _, choice := range choices {
		if err := validateChoice(choice.flag, choice.value, choice.allowed); err != nil {
			return nil, err
		}
	}

	var groups []sorter.Group
	if flags.Changed("groups") {
		parsed, err := parseGroups(groupSpecs)
		if err != nil {
			return nil, err
		}
		groups = parsed
	}

	return func(options *config.Options) {
		if flags.Changed("resolver") {
			options.Resolver.Type = config.ResolverType(resolverType)
		}
		if flags.Changed("tsconfig") {
			options.Resolver.ConfigName = tsconfigName
		}
		if flags.Changed("comment-mode") {
			options.ImportCommentMode = extractor.CommentMode(commentMode)
		}
		if flags.Changed("location") {
			options.ImportLocation = extractor.Location(location)
		}
		if flags.Changed("groups") {
			options.Groups = groups
		}
		if flags.Changed("split-relative") {
			options.SplitRelativeGroups = splitRelative
		}
		if flags.Changed("relative-sort") {
			options.RelativeSortAlg = sorter.RelativeSortAlg(relativeSort)
		}
		if flags.Changed("split-local-pattern") {
			options.SplitLocalPattern = splitLocalPattern
		}
		if flags.Changed("end-of-line") {
			options.EndOfLine = extractor.EndOfLine(endOfLine)
		}
		if flags.Changed("builtins") {
			options.BuiltinsAsDependencies = builtins
		}
		if flags.Changed("exclude") {
			options.Exclude = append(options.Exclude, excludes...)
		}
	}, nil
}

func validateChoice(flag, value string, allowed []string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s %q: must be one of %s", flag, value, strings.Join(allowed, ", "))
}

// parseGroups turns name[:alg] specs into sorter groups. The algorithm defaults to persist.
func parseGroups(specs []string) ([]sorter.Group, error) {
	groups := make([]sorter.Group, 0, len(specs))
	for _, spec := range specs {
		name, alg, found := strings.Cut(strings.TrimSpace(spec), ":")
		if name == "" || (found && (alg == "" || strings.Contains(alg, ":"))) {
			return nil, fmt.Errorf("%s: %q", errors.ErrMsgInvalidGroupFlag, spec)
		}
		if !found {
			alg = string(sorter.AlgPersist)
		}
		groups = append(groups, sorter.Group{Name: sorter.GroupName(name), Alg: sorter.Algorithm(alg)})
	}
	return groups, nil
}

func Execute() error {
	return rootCmd.Execute()
}
