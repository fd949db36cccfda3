package bridge

import (
	"errors"
	"fmt"
)

// Kind classifies a boundary failure. The numeric values are part of the C
// ABI (cimage_error_kind) and must not be reordered.
type Kind int32

const (
	KindNone Kind = iota
	KindInvalidPathEncoding
	KindDecodeFailure
	KindCallerMisuse
	KindAllocation
)

// String returns the name exposed through cimage_error_kind_name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindInvalidPathEncoding:
		return "invalid path encoding"
	case KindDecodeFailure:
		return "decode failure"
	case KindCallerMisuse:
		return "caller misuse"
	case KindAllocation:
		return "allocation failure"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Error is the failure type returned by every Bridge operation.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so the sentinel
// values below match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidPathEncoding = &Error{Kind: KindInvalidPathEncoding}
	ErrDecodeFailure       = &Error{Kind: KindDecodeFailure}
	ErrCallerMisuse        = &Error{Kind: KindCallerMisuse}
	ErrAllocation          = &Error{Kind: KindAllocation}
)

var (
	errNilPath     = errors.New("path pointer is nil")
	errInvalidUTF8 = errors.New("path is not valid UTF-8")
	errTooLarge    = errors.New("image dimensions exceed the handle's 32-bit pixel count")
	errNotIssued   = errors.New("handle was not issued by this bridge or was already released")
	errOutOfMemory = errors.New("out of memory")
)

// KindOf returns the Kind carried by err, KindNone for nil, and
// KindDecodeFailure for errors that did not come from this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDecodeFailure
}
