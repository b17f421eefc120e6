// Package invariant provides contract assertions for clicake.
//
// Use Precondition/Postcondition to express function contracts, and Invariant
// for internal consistency checks such as scanner progress.
//
// All functions panic on violation - these are programming errors, not user errors.
// A malformed command line is never an invariant violation; it is either
// coerced (the scanner accepts every token) or reported by the binder as an error.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func (b *SignatureBuilder) Positional(name string, typ ParamType) *ParamBuilder {
//	    invariant.Precondition(name != "", "positional slot name must not be empty")
//	    // ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
//
// Example:
//
//	result := scan(tokens)
//	invariant.Postcondition(result.consumed == len(tokens), "every token consumed exactly once")
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Example:
//
//	for i, raw := range tokens {
//	    // ... classify and consume raw ...
//	    invariant.Invariant(s.consumed == i+1, "scanner must consume one token per step")
//	}
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil).
//
// Example:
//
//	func Bind(parsed *parser.ParsedArguments, sig types.Signature, v *types.Validator) (*Call, error) {
//	    invariant.NotNil(parsed, "parsed")
//	    // ...
//	}
func NotNil(value any, name string) {
	if isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

// isNilValue checks if a value is nil or a typed nil using reflection
func isNilValue(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// ExpectNoError panics if error is not nil.
// This is a postcondition check for operations that should never fail,
// such as building an encoder from fixed options.
//
// Example:
//
//	encMode, err := cbor.CanonicalEncOptions().EncMode()
//	invariant.ExpectNoError(err, "canonical CBOR encoder options")
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// fail panics with a formatted message including the violating call site.
func fail(kind, format string, args ...any) {
	// Skip runtime.Callers, fail() and the exported wrapper
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]any{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
