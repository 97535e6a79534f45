package formatter

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/config"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/logger"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/sorter"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/syntax"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/utils"
)

// defaultParsePath selects the grammar when Sort is called without a file path.
const defaultParsePath = "input.ts"

type FormatterConfig struct {
	FilePath   string                // path to the source file
	ConfigPath string                // options file; when empty the nearest .tigrc.* is used
	Override   func(*config.Options) // applied to the options of every file
	InPlace    bool                  // whether to modify the file in place
	Check      bool                  // report unsorted files instead of printing or writing them
	Output     io.Writer             // destination of printed output, os.Stdout when nil
}

// formatter handles the import sorting of files and directories
type formatter struct {
	config FormatterConfig
	parser syntax.Parser
}

// New creates a new formatter
func New(config FormatterConfig) *formatter {
	return &formatter{
		config: config,
		parser: syntax.NewTreeSitterParser(),
	}
}

// Sort reorders the imports of text. filePath locates the project configuration
// and selects the grammar; when it is empty the working directory is searched and
// text is parsed as TypeScript. Missing or unusable configuration leaves text unchanged.
func Sort(ctx context.Context, text, filePath string, options config.Options) (string, error) {
	return sortText(ctx, syntax.NewTreeSitterParser(), text, filePath, options)
}

func sortText(ctx context.Context, parser syntax.Parser, text, filePath string, options config.Options) (string, error) {
	parsePath, searchPath := filePath, filePath
	if filePath == "" {
		parsePath = defaultParsePath
		wd, err := os.Getwd()
		if err != nil {
			return text, fmt.Errorf("%s: %w", errors.ErrMsgFailedToGetWorkingDir, err)
		}
		searchPath = wd
	}
	if !syntax.IsSupportedFile(parsePath) {
		return text, fmt.Errorf("%s: %s", errors.ErrMsgUnsupportedFile, parsePath)
	}

	importResolver, ok := newResolver(searchPath, options)
	if !ok {
		return text, nil
	}

	statements, err := parser.Parse(ctx, parsePath, []byte(text))
	if err != nil {
		return text, err
	}

	worker := extractor.New(text, statements, options.ExtractorOptions())
	imports := worker.FindImportNodes()
	if len(imports) == 0 {
		logger.Debug(errors.InfoMsgNoImports, parsePath)
		return text, nil
	}

	worker.RemoveNodes(imports...)
	groups := sorter.New(importResolver).Process(imports, options.SorterOptions())
	worker.InsertImports(groups, options.ImportLocation)

	return worker.Compile(), nil
}

func (g *formatter) getFilePath() string {
	return g.config.FilePath
}

func (g *formatter) getInPlace() bool {
	return g.config.InPlace
}

func (g *formatter) getCheck() bool {
	return g.config.Check
}

func (g *formatter) out() io.Writer {
	if g.config.Output == nil {
		return os.Stdout
	}
	return g.config.Output
}

// resolveOptions loads the options that apply to path
func (g *formatter) resolveOptions(path string) (config.Options, error) {
	options := config.Defaults()

	optionsPath := g.config.ConfigPath
	if optionsPath == "" {
		if found, ok := config.FindOptionsFile(path); ok {
			optionsPath = found
		}
	}
	if optionsPath != "" {
		loaded, err := config.LoadOptions(optionsPath)
		if err != nil {
			return options, fmt.Errorf("%s: %w", errors.ErrMsgFailedToResolveOptions, err)
		}
		logger.Debug(errors.InfoMsgUsingOptionsFile, optionsPath)
		options = loaded
	}

	if g.config.Override != nil {
		g.config.Override(&options)
	}
	return options, nil
}

// ProcessFileWithOutput sorts the imports of a source file. Without in-place and
// check mode the result is printed when verbose is set.
func (g *formatter) ProcessFileWithOutput(verbose bool) error {
	path := g.getFilePath()
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}

	options, err := g.resolveOptions(path)
	if err != nil {
		return err
	}

	output, err := sortText(context.Background(), g.parser, string(src), path, options)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToSortFile, err)
	}
	changed := output != string(src)

	if g.getCheck() {
		if changed {
			return fmt.Errorf("%w: %s", errors.ErrUnsorted, path)
		}
		return nil
	}

	if g.getInPlace() {
		if !changed {
			return nil
		}
		if err := os.WriteFile(path, []byte(output), info.Mode().Perm()); err != nil {
			return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
		}
		return nil
	}

	if verbose {
		fmt.Fprint(g.out(), output)
	}
	return nil
}

// ProcessFile processes a source file and sorts its imports
func (g *formatter) ProcessFile() error {
	return g.ProcessFileWithOutput(true)
}

// ProcessFiles processes multiple source files and sorts their imports
func (g *formatter) ProcessFiles(filePaths []string) error {
	processedCount := 0
	errorCount := 0
	unsortedCount := 0
	out := g.out()

	for _, filePath := range filePaths {
		g.config.FilePath = filePath
		err := g.ProcessFileWithOutput(false)
		switch {
		case stderrors.Is(err, errors.ErrUnsorted):
			fmt.Fprintf(out, errors.InfoMsgNotSorted+"\n", filePath)
			unsortedCount++
		case err != nil:
			fmt.Fprintf(out, errors.InfoMsgErrorProcessing+"\n", filePath, err)
			errorCount++
		default:
			processedCount++
			if g.getInPlace() {
				fmt.Fprintf(out, errors.InfoMsgProcessedFiles+"\n", filePath)
			}
		}
	}

	fmt.Fprintf(out, errors.InfoMsgProcessedCount, processedCount)
	if errorCount > 0 {
		fmt.Fprintf(out, errors.InfoMsgErrorCount, errorCount)
	}
	if unsortedCount > 0 {
		fmt.Fprintf(out, errors.InfoMsgUnsortedCount, unsortedCount)
	}
	fmt.Fprintln(out)

	if errorCount > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToProcess, errorCount)
	}
	if unsortedCount > 0 {
		return fmt.Errorf("%w: "+errors.ErrMsgFilesNotSorted, errors.ErrUnsorted, unsortedCount)
	}
	return nil
}

// ProcessPath processes a file or directory path
func (g *formatter) ProcessPath(path string) error {
	isDir, err := utils.IsDirectory(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
	}

	if !isDir {
		g.config.FilePath = path
		return g.ProcessFile()
	}

	out := g.out()
	// When processing directories, in-place mode is recommended
	if !g.getInPlace() && !g.getCheck() {
		fmt.Fprintln(out, errors.WarnMsgProcessingDirWithoutInPlace)
		fmt.Fprint(out, errors.InfoMsgUseInPlaceFlag+"\n\n")
	}

	options, err := g.resolveOptions(path)
	if err != nil {
		return err
	}

	sourceFiles, err := utils.FindSourceFiles(path, options.Exclude)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToFindFiles, err)
	}

	if len(sourceFiles) == 0 {
		fmt.Fprintf(out, errors.InfoMsgNoFilesFound+"\n", path)
		return nil
	}

	fmt.Fprintf(out, errors.InfoMsgFoundFiles+"\n\n", len(sourceFiles), path)
	return g.ProcessFiles(sourceFiles)
}
