package bridge

// #include <string.h>
import "C"

import (
	"errors"
	"io/fs"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// pathView returns the NUL-terminated bytes at p as a string that shares p's
// memory. The string is only valid while the caller keeps p alive, which for
// the C ABI is the duration of the call.
func pathView(p unsafe.Pointer) (string, error) {
	if p == nil {
		return "", &Error{Kind: KindInvalidPathEncoding, Err: errNilPath}
	}
	n := C.strlen((*C.char)(p))
	path := unsafe.String((*byte)(p), int(n))
	if !utf8.ValidString(path) {
		return "", &Error{Kind: KindInvalidPathEncoding, Err: errInvalidUTF8}
	}
	return path, nil
}

// detach rewrites the path strings inside err so that it no longer refers to
// memory borrowed from a C caller.
func detach(err error) error {
	var e *Error
	if errors.As(err, &e) {
		e.Path = strings.Clone(e.Path)
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		pe.Path = strings.Clone(pe.Path)
	}
	return err
}
