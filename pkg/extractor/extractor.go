// Package extractor locates import statements in a source buffer, cuts them out
// and splices sorted groups of them back in, leaving every other byte untouched.
package extractor

import (
	"sort"
	"strings"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/syntax"
)

// Descriptor is one import statement with its resolved spans.
type Descriptor struct {
	// Target is the parser node. It is never modified.
	Target *syntax.Statement
	// Value is the text of Outer, taken from the original source.
	Value string
	// Inner covers the statement alone.
	Inner Bounds
	// Outer covers the statement and its attached comments.
	Outer Bounds
}

// Path returns the imported module specifier.
func (d *Descriptor) Path() string {
	return d.Target.Source
}

// Extractor owns the working buffer of one transform.
type Extractor struct {
	original   string
	statements []syntax.Statement
	options    Options
	buffer     *Buffer
	// claimed holds the spans of comments already attached to a statement.
	claimed map[Bounds]bool
}

// New creates an Extractor over source and the statements parsed from it.
func New(source string, statements []syntax.Statement, options Options) *Extractor {
	return &Extractor{
		original:   source,
		statements: statements,
		options:    options,
		buffer:     NewBuffer(source),
		claimed:    make(map[Bounds]bool),
	}
}

func (e *Extractor) endOfLine() string {
	return e.options.EndOfLine.Terminator()
}

// FindImportNodes returns the import statements in source order. Statements without
// a location or with a span outside the source are skipped.
func (e *Extractor) FindImportNodes() []*Descriptor {
	var (
		result  []*Descriptor
		lastEnd int
	)

	for i := range e.statements {
		stmt := &e.statements[i]
		if !stmt.IsImport() || stmt.Loc == nil || !e.validSpan(stmt.Start, stmt.End) {
			continue
		}

		inner := Bounds{Start: stmt.Start, End: stmt.End}
		outer := inner
		if e.options.CommentMode != CommentNone && e.options.CommentMode != "" {
			outer.Start = e.extendLeading(stmt, inner.Start, lastEnd)
			outer.End = e.extendTrailing(stmt, inner.End)
		}
		lastEnd = outer.End

		result = append(result, &Descriptor{
			Target: stmt,
			Value:  e.original[outer.Start:outer.End],
			Inner:  inner,
			Outer:  outer,
		})
	}

	return result
}

// extendLeading moves start back to the earliest qualifying, unclaimed leading
// comment that does not reach into the previous import. Every comment enclosed by
// the extension becomes claimed.
func (e *Extractor) extendLeading(stmt *syntax.Statement, start, floor int) int {
	extended := start
	for _, comment := range stmt.LeadingComments {
		key := Bounds{Start: comment.Start, End: comment.End}
		if e.claimed[key] || !e.validSpan(comment.Start, comment.End) {
			continue
		}
		if comment.Start < floor || comment.End > start {
			continue
		}
		if !e.leadingQualifies(comment, stmt) {
			continue
		}
		if comment.Start < extended {
			extended = comment.Start
		}
	}

	for _, comment := range stmt.LeadingComments {
		if comment.Start >= extended && comment.End <= start {
			e.claimed[Bounds{Start: comment.Start, End: comment.End}] = true
		}
	}
	return extended
}

func (e *Extractor) leadingQualifies(comment syntax.Comment, stmt *syntax.Statement) bool {
	switch e.options.CommentMode {
	case CommentSameLine:
		return comment.Loc.End.Line == stmt.Loc.Start.Line
	case CommentPrevLine:
		return comment.Loc.End.Line >= stmt.Loc.Start.Line-1
	default:
		return false
	}
}

// extendTrailing moves end forward over trailing comments that start on the
// line the statement ends on.
func (e *Extractor) extendTrailing(stmt *syntax.Statement, end int) int {
	extended := end
	for _, comment := range stmt.TrailingComments {
		if !e.validSpan(comment.Start, comment.End) || comment.Start < end {
			continue
		}
		if comment.Loc.Start.Line != stmt.Loc.End.Line {
			continue
		}
		e.claimed[Bounds{Start: comment.Start, End: comment.End}] = true
		if comment.End > extended {
			extended = comment.End
		}
	}
	return extended
}

func (e *Extractor) validSpan(start, end int) bool {
	return start >= 0 && start <= end && end <= len(e.original)
}

// RemoveNodes cuts the descriptors out of the buffer. Offsets refer to the original
// source, so it must be called at most once per Extractor.
func (e *Extractor) RemoveNodes(nodes ...*Descriptor) {
	if len(nodes) == 0 {
		return
	}
	e.buffer.Remove(e.removalSpans(nodes))
}

// removalSpans joins descriptors separated only by spaces or tabs into one run,
// so imports sharing a line are judged together, and widens every run.
func (e *Extractor) removalSpans(nodes []*Descriptor) []Bounds {
	sorted := make([]*Descriptor, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Outer.Start < sorted[j].Outer.Start
	})

	runs := make([]Bounds, 0, len(sorted))
	for _, node := range sorted {
		span := node.Outer
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if span.Start <= last.End || isBlank(e.original[last.End:span.Start]) {
				last.End = max(last.End, span.End)
				continue
			}
		}
		runs = append(runs, span)
	}

	for i := range runs {
		runs[i] = e.removalExtent(runs[i])
	}
	return runs
}

// removalExtent widens a span that is alone on its lines to the full lines, their
// terminator and the blank lines that follow, so that no empty line is left behind.
// Any other span is removed exactly.
func (e *Extractor) removalExtent(span Bounds) Bounds {
	src := e.original
	lineStart := strings.LastIndexAny(src[:span.Start], "\r\n") + 1
	if !isBlank(src[lineStart:span.Start]) {
		return span
	}

	lineEnd := nextTerminator(src, span.End)
	if !isBlank(src[span.End:lineEnd]) {
		return span
	}

	end := skipTerminator(src, lineEnd)
	for end < len(src) {
		next := nextTerminator(src, end)
		if next == len(src) || !isBlank(src[end:next]) {
			break
		}
		end = skipTerminator(src, next)
	}
	return Bounds{Start: lineStart, End: end}
}

// InsertNodes writes the nodes, each followed by a terminator, plus one separating
// terminator at insertIndex. It returns the offset right after the inserted block.
func (e *Extractor) InsertNodes(nodes []*Descriptor, insertIndex int) int {
	return e.insertBlock(nodes, insertIndex, true)
}

func (e *Extractor) insertBlock(nodes []*Descriptor, insertIndex int, separate bool) int {
	eol := e.endOfLine()

	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(node.Value)
		sb.WriteString(eol)
	}
	if separate {
		sb.WriteString(eol)
	}

	block := sb.String()
	if insertIndex < 0 {
		insertIndex = 0
	}
	if insertIndex > e.buffer.Len() {
		insertIndex = e.buffer.Len()
	}
	e.buffer.InsertAt(insertIndex, block)
	return insertIndex + len(block)
}

// InsertImports inserts the groups one after another. LocationLeading starts at the
// beginning of the buffer; LocationAuto starts where the earliest import was removed.
// Empty groups are skipped. When the imports land after the remaining code, the
// last group gets no separating terminator.
func (e *Extractor) InsertImports(groups [][]*Descriptor, location Location) {
	var (
		all  []*Descriptor
		last = -1
	)
	for i, group := range groups {
		if len(group) > 0 {
			all = append(all, group...)
			last = i
		}
	}
	if last < 0 {
		return
	}

	insertIndex := 0
	if location == LocationAuto {
		insertIndex = e.removalSpans(all)[0].Start
	}
	trailing := e.buffer.Len() > 0 && insertIndex >= e.buffer.Len()

	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		insertIndex = e.insertBlock(group, insertIndex, !(trailing && i == last))
	}
}

// Compile returns the current buffer.
func (e *Extractor) Compile() string {
	return e.buffer.String()
}

func isBlank(s string) bool {
	return strings.Trim(s, " \t") == ""
}

func nextTerminator(s string, from int) int {
	if i := strings.IndexAny(s[from:], "\r\n"); i >= 0 {
		return from + i
	}
	return len(s)
}

func skipTerminator(s string, at int) int {
	switch {
	case strings.HasPrefix(s[at:], "\r\n"):
		return at + 2
	case at < len(s):
		return at + 1
	default:
		return at
	}
}
