package report

// TextSpan represents a range or "span" of source text. It is used to specify
// erroneous or otherwise significant source text in a Glyph program. Text
// spans are inclusive on both sides: the starting position is the position of
// the first character in the span and the ending position is the position of
// the last character in the span. Line and column numbers are zero-indexed.
type TextSpan struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// CompilationContext identifies the file a diagnostic or symbol belongs to.
type CompilationContext struct {
	// FileID is the stable, deterministic ordinal assigned to the file when
	// it was added to the project (see depm.File.ID). Sorting by FileID
	// rather than by path keeps failure reporting independent of filesystem
	// iteration order.
	FileID int

	// AbsPath is the file's absolute path on disk.
	AbsPath string

	// ReprPath is the path used when displaying diagnostics to the user.
	ReprPath string

	// Strictness is the file's strictness level; see StrictnessLevel.
	Strictness StrictnessLevel
}

// StrictnessLevel mirrors a file's `# glyph:` sigil. Order matters: it is
// used to sort failures strictest-first (spec.md §4.1) so that a
// suppressed-file error never masks a reportable one.
type StrictnessLevel int

const (
	StrictnessIgnore StrictnessLevel = iota
	StrictnessFalse
	StrictnessTrue
	StrictnessStrict
	StrictnessStrong
)

func (s StrictnessLevel) String() string {
	switch s {
	case StrictnessIgnore:
		return "ignore"
	case StrictnessFalse:
		return "false"
	case StrictnessTrue:
		return "true"
	case StrictnessStrict:
		return "strict"
	case StrictnessStrong:
		return "strong"
	default:
		return "unknown"
	}
}
