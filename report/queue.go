package report

import "fmt"

// ErrorBuilder incrementally assembles a diagnostic. It mirrors the chained
// builder the spec's §6 "error queue" interface names:
// `beginError → setHeader → addErrorLine → addErrorSection → replaceWith`.
// Nothing is reported to the reporter until Report is called, so a caller
// that decides partway through building a diagnostic that it doesn't apply
// (e.g. a job that resolves before its error is emitted) can simply drop the
// builder.
type ErrorBuilder struct {
	msg *Message
}

// BeginError starts building an error-severity diagnostic with the given
// code, located at ctx/span.
func BeginError(ctx *CompilationContext, span *TextSpan, code Code) *ErrorBuilder {
	return &ErrorBuilder{msg: &Message{
		Code:     code,
		Severity: SeverityError,
		Ctx:      ctx,
		Span:     span,
	}}
}

// BeginWarning is the warning-severity counterpart to BeginError.
func BeginWarning(ctx *CompilationContext, span *TextSpan, code Code) *ErrorBuilder {
	return &ErrorBuilder{msg: &Message{
		Code:     code,
		Severity: SeverityWarning,
		Ctx:      ctx,
		Span:     span,
	}}
}

// SetHeader sets the one-line summary of the diagnostic.
func (b *ErrorBuilder) SetHeader(format string, args ...any) *ErrorBuilder {
	b.msg.Header = fmt.Sprintf(format, args...)
	return b
}

// AddErrorLine appends a line of supplementary detail below the header.
func (b *ErrorBuilder) AddErrorLine(format string, args ...any) *ErrorBuilder {
	b.msg.Lines = append(b.msg.Lines, fmt.Sprintf(format, args...))
	return b
}

// AddErrorSection appends a labeled block of detail, e.g. a suggestion list.
func (b *ErrorBuilder) AddErrorSection(label string, items ...string) *ErrorBuilder {
	b.msg.Sections = append(b.msg.Sections, Section{Label: label, Items: items})
	return b
}

// ReplaceWith discards everything built so far and restarts the diagnostic
// under a new code, keeping the original location. Used when a job
// discovers mid-build that a more specific error code applies (e.g. an
// ancestor job that starts out building DynamicSuperclass but discovers the
// ancestor is circular instead).
func (b *ErrorBuilder) ReplaceWith(code Code) *ErrorBuilder {
	b.msg = &Message{
		Code:     code,
		Severity: b.msg.Severity,
		Ctx:      b.msg.Ctx,
		Span:     b.msg.Span,
	}
	return b
}

// Report finalizes and records the diagnostic.
func (b *ErrorBuilder) Report() {
	current().record(b.msg)
}
