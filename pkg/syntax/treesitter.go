package syntax

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
)

const (
	nodeComment       = "comment"
	nodeImport        = "import_statement"
	nodeRequireClause = "import_require_clause"
)

// SupportedExtensions maps file extensions to the grammar used to parse them.
var SupportedExtensions = map[string]string{
	".js":  "javascript",
	".cjs": "javascript",
	".mjs": "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".mts": "typescript",
	".cts": "typescript",
	".tsx": "tsx",
}

// IsSupportedFile reports whether path has an extension the parser understands.
func IsSupportedFile(path string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// TreeSitterParser parses JavaScript and TypeScript with tree-sitter grammars.
type TreeSitterParser struct {
	js  *sitter.Language
	ts  *sitter.Language
	tsx *sitter.Language
}

// NewTreeSitterParser creates a parser for every supported extension.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{
		js:  javascript.GetLanguage(),
		ts:  tslang.GetLanguage(),
		tsx: tsxlang.GetLanguage(),
	}
}

// Parse returns the top-level statements of src. Sources with syntax errors are
// rejected with errors.ErrSyntax so that they are never rewritten.
func (p *TreeSitterParser) Parse(ctx context.Context, path string, src []byte) ([]Statement, error) {
	lang, err := p.languageForPath(path)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToParseFile, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", errors.ErrSyntax, path)
	}
	return collectStatements(root, src), nil
}

func (p *TreeSitterParser) languageForPath(path string) (*sitter.Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch SupportedExtensions[ext] {
	case "javascript":
		return p.js, nil
	case "typescript":
		return p.ts, nil
	case "tsx":
		return p.tsx, nil
	default:
		return nil, fmt.Errorf("%s: %q", errors.ErrMsgUnsupportedFile, ext)
	}
}

// collectStatements walks the program children and distributes the comments
// found between statements. A comment between two statements trails the first
// when it starts on the line the first one ends on, and leads the second otherwise.
func collectStatements(root *sitter.Node, src []byte) []Statement {
	var (
		statements []Statement
		pending    []Comment
	)

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == nodeComment {
			comment := newComment(child, src)
			if n := len(statements); n > 0 && comment.Loc.Start.Line == statements[n-1].Loc.End.Line {
				statements[n-1].TrailingComments = append(statements[n-1].TrailingComments, comment)
				continue
			}
			pending = append(pending, comment)
			continue
		}
		if child.StartByte() == child.EndByte() {
			continue
		}

		stmt, leading, trailing := newStatement(child, src)
		stmt.LeadingComments = append(slices.Clone(pending), leading...)
		stmt.TrailingComments = trailing
		pending = nil
		statements = append(statements, stmt)
	}

	return statements
}

// newStatement builds a statement from a program child. Comments that the grammar
// nested at the edges of the node are peeled off so that the statement span
// covers tokens only.
func newStatement(node *sitter.Node, src []byte) (Statement, []Comment, []Comment) {
	var (
		leading  []Comment
		trailing []Comment
		first    = -1
		last     = -1
	)

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child.Type() == nodeComment || child.StartByte() == child.EndByte() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	start, end := node.StartByte(), node.EndByte()
	startPoint, endPoint := node.StartPoint(), node.EndPoint()
	if first >= 0 {
		for i := 0; i < first; i++ {
			if child := node.Child(i); child.Type() == nodeComment {
				leading = append(leading, newComment(child, src))
			}
		}
		for i := last + 1; i < count; i++ {
			if child := node.Child(i); child.Type() == nodeComment {
				trailing = append(trailing, newComment(child, src))
			}
		}
		firstChild, lastChild := node.Child(first), node.Child(last)
		start, startPoint = firstChild.StartByte(), firstChild.StartPoint()
		end, endPoint = lastChild.EndByte(), lastChild.EndPoint()
	}

	loc := Location{Start: toPosition(startPoint), End: toPosition(endPoint)}
	stmt := Statement{
		Kind:  KindOther,
		Start: int(start),
		End:   int(end),
		Loc:   &loc,
	}
	if node.Type() == nodeImport {
		if source, ok := importSource(node, src); ok {
			stmt.Kind = KindImport
			stmt.Source = source
		}
	}
	return stmt, leading, trailing
}

func importSource(node *sitter.Node, src []byte) (string, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() == nodeRequireClause {
				sourceNode = child.ChildByFieldName("source")
				break
			}
		}
	}
	return stringLiteral(sourceNode, src)
}

func stringLiteral(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	text := node.Content(src)
	if len(text) >= 2 {
		quote := text[0]
		if (quote == '"' || quote == '\'') && text[len(text)-1] == quote {
			return text[1 : len(text)-1], true
		}
	}
	return "", false
}

func newComment(node *sitter.Node, src []byte) Comment {
	return Comment{
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
		Loc: Location{
			Start: toPosition(node.StartPoint()),
			End:   toPosition(node.EndPoint()),
		},
		Text: node.Content(src),
	}
}

func toPosition(p sitter.Point) Position {
	return Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}
