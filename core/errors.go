package core

import "errors"

// ValueError is the single user-facing failure kind of the native calls:
// a request that is well-formed but impossible on this pin or chip.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }

// TypeError reports an argument that is missing or cannot be interpreted as
// the type a native call expects.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// AssertionError is the panic value raised when an internal invariant does
// not hold. It is never converted into a ValueError.
type AssertionError string

func (e AssertionError) Error() string { return "assertion failed: " + string(e) }

func valueError(msg string) error {
	return &ValueError{Msg: msg}
}

func typeError(msg string) error {
	return &TypeError{Msg: msg}
}

// IsValueError reports whether err is, or wraps, a ValueError
func IsValueError(err error) bool {
	var ve *ValueError
	return errors.As(err, &ve)
}

// IsTypeError reports whether err is, or wraps, a TypeError
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

func assert(cond bool, msg string) {
	if !cond {
		panic(AssertionError(msg))
	}
}
