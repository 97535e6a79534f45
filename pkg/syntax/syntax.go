// Package syntax defines the parser-neutral statement model consumed by the
// import extractor, and a tree-sitter backed parser producing it.
package syntax

import "context"

// Kind classifies a top-level statement.
type Kind int

const (
	KindOther Kind = iota
	KindImport
)

// Position is a point in the source. Lines are 1-based, columns are 0-based bytes.
type Position struct {
	Line   int
	Column int
}

// Location spans two positions.
type Location struct {
	Start Position
	End   Position
}

// Comment is a line or block comment with its byte offsets.
type Comment struct {
	Start int
	End   int
	Loc   Location
	Text  string
}

// Statement is one top-level statement of a source file.
type Statement struct {
	Kind  Kind
	Start int
	End   int
	// Loc is nil when the parser could not locate the statement.
	Loc *Location
	// Source is the unquoted module specifier of an import.
	Source string

	// LeadingComments are the comments between the previous statement and this one.
	LeadingComments []Comment
	// TrailingComments are the comments between this statement and the next one.
	TrailingComments []Comment
}

// IsImport reports whether the statement is an import declaration.
func (s *Statement) IsImport() bool {
	return s != nil && s.Kind == KindImport
}

// Parser turns source text into top-level statements.
type Parser interface {
	Parse(ctx context.Context, path string, src []byte) ([]Statement, error)
}
