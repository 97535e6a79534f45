package extractor

// CommentMode selects which comments are attached to an import statement.
type CommentMode string

const (
	// CommentNone attaches no comments.
	CommentNone CommentMode = "none"
	// CommentSameLine attaches comments that share a line with the statement.
	CommentSameLine CommentMode = "same-line"
	// CommentPrevLine additionally attaches a leading comment ending on the line above.
	CommentPrevLine CommentMode = "prev-line"
)

// EndOfLine is the line terminator convention used for inserted text.
type EndOfLine string

const (
	EndOfLineAuto EndOfLine = "auto"
	EndOfLineLF   EndOfLine = "lf"
	EndOfLineCR   EndOfLine = "cr"
	EndOfLineCRLF EndOfLine = "crlf"
)

// Terminator returns the characters of the convention. Unknown values and auto use "\n".
func (e EndOfLine) Terminator() string {
	switch e {
	case EndOfLineLF:
		return "\n"
	case EndOfLineCR:
		return "\r"
	case EndOfLineCRLF:
		return "\r\n"
	default:
		return "\n"
	}
}

// Location selects where sorted imports are inserted.
type Location string

const (
	// LocationLeading inserts at the start of the file.
	LocationLeading Location = "leading"
	// LocationAuto inserts where the first import used to be.
	LocationAuto Location = "auto"
)

// Options configures an Extractor.
type Options struct {
	CommentMode CommentMode
	EndOfLine   EndOfLine
}
