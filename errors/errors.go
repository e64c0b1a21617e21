package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // codec registration
	PhaseResolve  Phase = "resolve"  // codec lookup
	PhaseEncode   Phase = "encode"   // Go to wire
	PhaseDecode   Phase = "decode"   // wire to Go
	PhaseCall     Phase = "call"     // call envelope interpretation
	PhaseConfig   Phase = "config"   // option and config validation
)

// Kind categorizes the error
type Kind string

const (
	KindConversionNotSupported Kind = "conversion_not_supported"
	KindRange                  Kind = "range"
	KindMalformedPayload       Kind = "malformed_payload"
	KindRemoteCall             Kind = "remote_call"
	KindFrozen                 Kind = "frozen"
	KindDuplicate              Kind = "duplicate"
	KindInvalidInput           Kind = "invalid_input"
	KindTypeMismatch           Kind = "type_mismatch"
)

// Sentinels for errors.Is. They carry no phase, so they match any phase.
var (
	ErrConversionNotSupported = &Error{Kind: KindConversionNotSupported}
	ErrRange                  = &Error{Kind: KindRange}
	ErrMalformedPayload       = &Error{Kind: KindMalformedPayload}
	ErrFrozen                 = &Error{Kind: KindFrozen}
	ErrDuplicate              = &Error{Kind: KindDuplicate}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the driver
type Error struct {
	Value    any
	Boundary any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
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

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
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

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
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

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Boundary sets the nearest valid value for range failures
func (b *Builder) Boundary(v any) *Builder {
	b.err.Boundary = v
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

// NotSupported creates a conversion-not-supported error for a Go type, a
// wire type, or both.
func NotSupported(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindConversionNotSupported,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
		Detail:   "no registered codec",
	}
}

// OutOfRange creates a range error carrying the offending value and the
// nearest representable boundary.
func OutOfRange(phase Phase, path []string, value, boundary any, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindRange,
		Path:     path,
		Value:    value,
		Boundary: boundary,
		Detail:   detail,
	}
}

// Overflow creates a range error for a number that does not fit its target
// type; boundary is the nearest value the type can hold.
func Overflow(phase Phase, path []string, value, boundary any, targetType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindRange,
		Path:     path,
		GoType:   targetType,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:    value,
		Boundary: boundary,
	}
}

// Malformed creates a malformed payload error
func Malformed(phase Phase, path []string, wireType, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindMalformedPayload,
		Path:     path,
		WireType: wireType,
		Detail:   detail,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
	}
}

// Frozen creates an error for registration attempted after the registry was built
func Frozen(what string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindFrozen,
		Detail: fmt.Sprintf("cannot register %s: builder already built", what),
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicate,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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

// WithPath returns a copy of err with path prepended to its Path when err
// is an *Error; other errors are returned unchanged.
func WithPath(err error, path ...string) error {
	e, ok := err.(*Error)
	if !ok || len(path) == 0 {
		return err
	}
	cp := *e
	cp.Path = append(append(make([]string, 0, len(path)+len(e.Path)), path...), e.Path...)
	return &cp
}
