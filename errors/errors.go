package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // package container parsing
	PhaseLoad   Phase = "load"   // executable construction
	PhaseLookup Phase = "lookup" // launch-parameter table access
	PhaseDriver Phase = "driver" // driver capability calls
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedContainer      Kind = "malformed_container"
	KindInvalidDescriptor       Kind = "invalid_descriptor"
	KindDecode                  Kind = "decode"
	KindEntryPointCountMismatch Kind = "entry_point_count_mismatch"
	KindModuleLoad              Kind = "module_load"
	KindSymbolNotFound          Kind = "symbol_not_found"
	KindSharedMemoryConfig      Kind = "shared_memory_config"
	KindIndexOutOfRange         Kind = "index_out_of_range"
	KindUnsupported             Kind = "unsupported"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	Symbol     string
	Detail     string
	EntryPoint int // offending entry-point index, -1 when not applicable
	Code       int // driver error code, 0 when the driver has none
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.EntryPoint >= 0 {
		fmt.Fprintf(&b, " at entry point %d", e.EntryPoint)
	}

	if e.Symbol != "" {
		fmt.Fprintf(&b, ": symbol %q", e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Code != 0 {
		fmt.Fprintf(&b, " (driver code %d)", e.Code)
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
			Phase:      phase,
			Kind:       kind,
			EntryPoint: -1,
		},
	}
}

// EntryPoint sets the offending entry-point index
func (b *Builder) EntryPoint(i int) *Builder {
	b.err.EntryPoint = i
	return b
}

// Symbol sets the offending symbol name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Code sets the driver error code
func (b *Builder) Code(code int) *Builder {
	b.err.Code = code
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

// MalformedContainer creates a structural container-parsing error
func MalformedContainer(detail string, cause error) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindMalformedContainer,
		Detail:     detail,
		Cause:      cause,
		EntryPoint: -1,
	}
}

// InvalidDescriptor creates a per-record validation error identifying the
// offending entry-point index
func InvalidDescriptor(entryPoint int, detail string) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindInvalidDescriptor,
		Detail:     detail,
		EntryPoint: entryPoint,
	}
}

// DecodeFailed wraps a container decode failure surfaced during load
func DecodeFailed(cause error) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindDecode,
		Detail:     "decode executable package",
		Cause:      cause,
		EntryPoint: -1,
	}
}

// CountMismatch creates an entry-point count cross-check error
func CountMismatch(declared, decoded int) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindEntryPointCountMismatch,
		Detail:     fmt.Sprintf("caller declared %d entry points, package contains %d", declared, decoded),
		EntryPoint: -1,
	}
}

// ModuleLoad creates a device module instantiation error
func ModuleLoad(cause error) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindModuleLoad,
		Detail:     "instantiate device module",
		Cause:      cause,
		Code:       driverCode(cause),
		EntryPoint: -1,
	}
}

// SymbolNotFound creates a missing kernel symbol error
func SymbolNotFound(entryPoint int, name string, cause error) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindSymbolNotFound,
		Symbol:     name,
		Cause:      cause,
		EntryPoint: entryPoint,
	}
}

// SharedMemoryConfig creates a shared-memory opt-in failure error
func SharedMemoryConfig(entryPoint int, name string, bytes uint32, cause error) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindSharedMemoryConfig,
		Symbol:     name,
		Detail:     fmt.Sprintf("configure %d bytes of dynamic shared memory", bytes),
		Cause:      cause,
		Code:       driverCode(cause),
		EntryPoint: entryPoint,
	}
}

// IndexOutOfRange creates a launch-parameter lookup error
func IndexOutOfRange(index, count int) *Error {
	return &Error{
		Phase:      PhaseLookup,
		Kind:       KindIndexOutOfRange,
		Detail:     fmt.Sprintf("entry point %d out of range [0, %d)", index, count),
		EntryPoint: -1,
	}
}

// Unsupported creates an unsupported driver capability error
func Unsupported(what string) *Error {
	return &Error{
		Phase:      PhaseDriver,
		Kind:       KindUnsupported,
		Detail:     what,
		EntryPoint: -1,
	}
}

// DriverError is implemented by driver errors that carry a numeric code
// from the underlying driver API. The loader copies the code into the
// structured errors it returns so callers can distinguish transient
// driver failures (e.g. out of resources) from permanent ones.
type DriverError interface {
	error
	DriverCode() int
}

func driverCode(err error) int {
	if de, ok := err.(DriverError); ok {
		return de.DriverCode()
	}
	return 0
}
