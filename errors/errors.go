package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseRead      Phase = "read"      // file I/O
	PhaseDetect    Phase = "detect"    // container format sniffing
	PhaseParse     Phase = "parse"     // container structure walk
	PhaseNormalize Phase = "normalize" // tag/endianness canonicalization
	PhaseDecode    Phase = "decode"    // semantic field decoding
	PhaseReport    Phase = "report"    // listing/summary generation
)

// Kind categorizes the error
type Kind string

const (
	KindFormatUnknown     Kind = "format_unknown"     // no container signature matched
	KindOutOfBounds       Kind = "out_of_bounds"      // computed offset/length exceeds buffer
	KindInvalidData       Kind = "invalid_data"       // structure present but malformed
	KindImplausibleLength Kind = "implausible_length" // declared length outside sanity window
	KindNoProperties      Kind = "no_properties"      // all fallbacks exhausted, empty result
	KindNotFound          Kind = "not_found"          // expected structure absent
	KindIO                Kind = "io"                 // file system failure
)

// Error is the structured error type used throughout the toolkit
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string
	Tag    string
	Offset int
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	if e.Tag != "" {
		b.WriteString(" tag ")
		b.WriteString(strconvQuote(e.Tag))
	}
	if e.Offset > 0 {
		fmt.Fprintf(&b, " at offset 0x%x", e.Offset)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func strconvQuote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// File sets the offending file path
func (b *Builder) File(path string) *Builder {
	b.err.File = path
	return b
}

// Tag sets the property tag being processed
func (b *Builder) Tag(tag string) *Builder {
	b.err.Tag = tag
	return b
}

// Offset sets the buffer offset where the error occurred
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// FormatUnknown is returned when no detection strategy recognizes the input.
func FormatUnknown(file string) *Error {
	return &Error{
		Phase:  PhaseDetect,
		Kind:   KindFormatUnknown,
		File:   file,
		Detail: "no container signature matched; use a forced format override",
	}
}

// OutOfBounds creates a structural bounds error
func OutOfBounds(phase Phase, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("computed offset exceeds buffer (length %d)", length),
	}
}

// ImplausibleLength creates a property validation error for a declared
// length outside the accepted window.
func ImplausibleLength(tag string, offset int, declared uint32) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindImplausibleLength,
		Tag:    tag,
		Offset: offset,
		Detail: fmt.Sprintf("declared length %d outside (0, 10000)", declared),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s not found", what),
	}
}

// NoProperties is the condition reported when every parse path, including
// heuristic fallbacks, produced an empty property set.
func NoProperties(file string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindNoProperties,
		File:   file,
		Detail: "no properties found",
	}
}

// ReadFailed wraps a file system error with the offending path.
func ReadFailed(file string, cause error) *Error {
	return &Error{
		Phase: PhaseRead,
		Kind:  KindIO,
		File:  file,
		Cause: cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
