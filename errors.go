package evds

import "fmt"

// Code is the error taxonomy used throughout the kernel, mirroring the
// integer error codes of the source C library.
type Code int

const (
	// Ok is returned by internal helpers that also use this type; exported
	// APIs instead return a nil error.
	Ok Code = iota
	// Internal signals an invariant violation inside the kernel itself.
	Internal
	// File signals a failure in the external file-format collaborator.
	File
	// Syntax signals a parse failure (string_to_real, file loaders).
	Syntax
	// Memory is kept for parity with the source taxonomy; Go's allocator
	// never returns this, but a Mesher/Loader collaborator may.
	Memory
	// BadParameter flags a programmer error: nil/invalid argument.
	BadParameter
	// BadState flags a call that is invalid given the object's lifecycle state.
	BadState
	// InterthreadCall flags a call made from a thread that does not own
	// the right being exercised (initializer/integrator identity).
	InterthreadCall
	// InvalidObject flags use of a destroyed object.
	InvalidObject
	// NotFound flags a lookup miss (variable, child, UID, type).
	NotFound
	// NotInitialized flags use of an object/system before initialization.
	NotInitialized
	// NotImplemented flags an unimplemented optional solver callback.
	NotImplemented
	// InvalidType flags a variable-type mismatch on a typed getter/setter.
	InvalidType
	// IgnoreObject is the solver claim-loop sentinel "move to next solver".
	IgnoreObject
	// ClaimObject is the solver claim-loop sentinel "object is now bound".
	ClaimObject
)

var codeNames = map[Code]string{
	Ok:              "ok",
	Internal:        "internal",
	File:            "file",
	Syntax:          "syntax",
	Memory:          "memory",
	BadParameter:    "bad parameter",
	BadState:        "bad state",
	InterthreadCall: "interthread call",
	InvalidObject:   "invalid object",
	NotFound:        "not found",
	NotInitialized:  "not initialized",
	NotImplemented:  "not implemented",
	InvalidType:     "invalid type",
	IgnoreObject:    "ignore object",
	ClaimObject:     "claim object",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error wraps a Code with context; it implements the error interface.
type Error struct {
	code Code
	msg  string
	err  error
}

// NewError builds an *Error for the given code and message.
func NewError(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap builds an *Error that carries an underlying cause, for errors.Unwrap.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{code: code, msg: msg, err: cause}
}

// Code returns the taxonomy code of this error.
func (e *Error) Code() Code { return e.code }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %s", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target carries the same Code, so callers can write
// errors.Is(err, evds.NewError(evds.NotFound, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == other.code
}
