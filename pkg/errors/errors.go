package errors

import stderrors "errors"

// Error message constants for the ts-imports-group application
const (
	// File processing errors
	ErrMsgFailedToReadFile   = "failed to read file"
	ErrMsgFailedToParseFile  = "failed to parse file"
	ErrMsgFailedToSortFile   = "failed to sort imports"
	ErrMsgFailedToWriteFile  = "failed to write file"
	ErrMsgUnsupportedFile    = "unsupported file extension"
	ErrMsgSyntaxErrorsInFile = "source contains syntax errors"

	// Directory processing errors
	ErrMsgFailedToCheckPath      = "failed to check path"
	ErrMsgFailedToFindFiles      = "failed to find source files in directory"
	ErrMsgFilesFailedToProcess   = "%d files failed to process"
	ErrMsgFilesNotSorted         = "%d files have unsorted imports"
	ErrMsgInvalidExcludePattern  = "invalid exclude pattern"
	ErrMsgFailedToGetWorkingDir  = "failed to get current working directory"
	ErrMsgFailedToResolveOptions = "failed to resolve options"

	// Configuration errors
	ErrMsgFailedToReadConfig     = "read config"
	ErrMsgFailedToParseConfig    = "parse config"
	ErrMsgInvalidConfig          = "invalid config"
	ErrMsgConfigExtendsCycle     = "extends cycle detected at"
	ErrMsgUnsupportedConfigType  = "unsupported config format"
	ErrMsgFailedToCompileSchema  = "compile options schema"
	ErrMsgInvalidGroupFlag       = "invalid group specification"
	ErrMsgUnknownResolverType    = "unknown resolver type"
	ErrMsgInvalidSplitLocalRegex = "invalid split local pattern"

	// Info/warning messages
	WarnMsgProcessingDirWithoutInPlace = "Warning: Processing directory without --in-place flag. No files will be modified."
	InfoMsgUseInPlaceFlag              = "Use --in-place flag to modify files or --check to verify them."
	InfoMsgNoFilesFound                = "No source files found in directory: %s"
	InfoMsgFoundFiles                  = "Found %d source files in directory: %s"
	InfoMsgProcessedFiles              = "Processed: %s"
	InfoMsgNotSorted                   = "Not sorted: %s"
	InfoMsgErrorProcessing             = "Error processing %s: %v"
	InfoMsgProcessedCount              = "\nProcessed %d files successfully"
	InfoMsgErrorCount                  = ", %d files had errors"
	InfoMsgUnsortedCount               = ", %d files need sorting"
	InfoMsgConfigNotFound              = "%s not found from %s, leaving file unchanged"
	InfoMsgConfigUnusable              = "cannot use %s: %v, leaving file unchanged"
	InfoMsgNoImports                   = "no imports in %s"
	InfoMsgUsingOptionsFile            = "using options file %s"
)

var (
	// ErrUnsorted is returned in check mode when a file would be changed.
	ErrUnsorted = stderrors.New("imports are not sorted")
	// ErrSyntax is returned when the parser reports errors in the source.
	ErrSyntax = stderrors.New(ErrMsgSyntaxErrorsInFile)
)
