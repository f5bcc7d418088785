package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which stage of the generation pass the error occurred in
type Phase string

const (
	PhaseLoad     Phase = "load"     // front-end loading and world resolution
	PhaseNaming   Phase = "naming"   // identifier translation
	PhaseClassify Phase = "classify" // type classification
	PhaseGenerate Phase = "generate" // artifact rendering
	PhaseWrite    Phase = "write"    // output sink
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindAmbiguousWorld   Kind = "ambiguous_world"
	KindUnsupportedShape Kind = "unsupported_shape"
	KindCollision        Kind = "collision"
	KindFlagOverflow     Kind = "flag_overflow"
	KindNotImplemented   Kind = "not_implemented"
	KindWriteFailure     Kind = "write_failure"
)

// Error is the structured error type used throughout the generator.
// Every generation failure is fatal to the pass; the Phase names the
// failing stage for the operator and the Kind the category.
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	WitType string // fully qualified WIT type path, when one is involved
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.WitType != "" {
		b.WriteString(": type ")
		b.WriteString(e.WitType)
	}

	if e.Detail != "" {
		if e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// WitType sets the fully qualified WIT type path
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
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

// Load creates a front-end loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}

// WorldNotFound creates an error for a world name that resolved nothing
func WorldNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("world %q not found", name),
	}
}

// AmbiguousWorld creates an error for a package defining several worlds
// when none was named
func AmbiguousWorld(names []string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindAmbiguousWorld,
		Detail: fmt.Sprintf("expected exactly 1 world, found %d (%s); select one with --world", len(names), strings.Join(names, ", ")),
	}
}

// UnsupportedShape creates an error for a type the classifier cannot lower.
// witType is the fully qualified type path.
func UnsupportedShape(witType, detail string) *Error {
	return &Error{
		Phase:   PhaseClassify,
		Kind:    KindUnsupportedShape,
		WitType: witType,
		Detail:  detail,
	}
}

// Collision creates an error for two source identifiers mapping to the
// same generated identifier in one namespace
func Collision(generated, first, second string) *Error {
	return &Error{
		Phase:  PhaseNaming,
		Kind:   KindCollision,
		Detail: fmt.Sprintf("%q and %q both map to generated identifier %q", first, second, generated),
	}
}

// FlagOverflow creates an error for a flags type with more members than
// the widest backing integer
func FlagOverflow(witType string, count int) *Error {
	return &Error{
		Phase:   PhaseClassify,
		Kind:    KindFlagOverflow,
		WitType: witType,
		Detail:  fmt.Sprintf("%d flags exceed the 64-bit backing width", count),
	}
}

// NotImplemented creates an error for a target language without a
// full generator
func NotImplemented(target string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindNotImplemented,
		Detail: fmt.Sprintf("%s generator not yet implemented", target),
	}
}

// Write creates an output sink error
func Write(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindWriteFailure,
		Detail: fmt.Sprintf("writing %s", path),
		Cause:  cause,
	}
}
