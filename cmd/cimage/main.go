// Command cimage builds the cimage C shared library.
//
//	go build -buildmode=c-shared -o libcimage.so ./cmd/cimage
//
// The build also writes libcimage.h, which includes cimage.h and declares the
// exported functions below. cimage.h is not copied by the build: install it
// next to libcimage.h or compile C callers with -I cmd/cimage.
//
// Add -tags cimage_debug to refuse double or foreign frees and log every
// handle to stderr.
package main

/*
#include "cimage.h"
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ironsheep/cimage/internal/bridge"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	// A mismatch here means cimage.h and the Go mirrors drifted apart; no
	// handle could be exchanged safely, so refuse to load.
	if err := checkLayout(); err != nil {
		panic(err)
	}
}

// cimage_image_decode_from_file decodes path and returns a new handle, or
// NULL if the path is not UTF-8 or the file cannot be decoded.
//
//export cimage_image_decode_from_file
func cimage_image_decode_from_file(path *C.char) *C.cimage_image {
	return (*C.cimage_image)(decode(unsafe.Pointer(path), nil))
}

// cimage_image_decode is cimage_image_decode_from_file with the failure
// reason written to status, when status is not NULL.
//
//export cimage_image_decode
func cimage_image_decode(path *C.char, status *C.cimage_status) *C.cimage_image {
	return (*C.cimage_image)(decode(unsafe.Pointer(path), unsafe.Pointer(status)))
}

// cimage_image_free releases a handle and its pixels. NULL is ignored.
//
//export cimage_image_free
func cimage_image_free(image *C.cimage_image) {
	release(unsafe.Pointer(image))
}

//export cimage_version
func cimage_version() *C.char {
	return versionCString()
}

// versionCString is allocated once and lives for the life of the process.
var versionCString = sync.OnceValue(func() *C.char {
	return C.CString(Version)
})

func decode(path, status unsafe.Pointer) unsafe.Pointer {
	img, err := bridge.Default().DecodeCString(path)
	if status != nil {
		(*bridge.Status)(status).Set(err)
	}
	if err != nil {
		return nil
	}
	return unsafe.Pointer(img)
}

// release ignores the ledger's verdict: the C signature has no way to report
// it and debug builds have already logged it.
func release(image unsafe.Pointer) {
	_ = bridge.Default().ReleasePointer(image)
}

func checkLayout() error {
	sizes := []struct {
		name   string
		c      uintptr
		mirror uintptr
	}{
		{"cimage_rgba8", uintptr(C.sizeof_cimage_rgba8), bridge.PixelSize},
		{"cimage_image", uintptr(C.sizeof_cimage_image), bridge.ImageSize},
		{"cimage_status", uintptr(C.sizeof_cimage_status), unsafe.Sizeof(bridge.Status{})},
	}
	for _, s := range sizes {
		if s.c != s.mirror {
			return fmt.Errorf("cimage: sizeof(%s) is %d in C but %d in Go", s.name, s.c, s.mirror)
		}
	}

	if off := uintptr(C.cimage_image_pixels_offset()); off != unsafe.Offsetof(bridge.Image{}.Pixels) {
		return fmt.Errorf("cimage: cimage_image.pixels at offset %d in C but %d in Go", off, unsafe.Offsetof(bridge.Image{}.Pixels))
	}
	if int(C.CIMAGE_STATUS_MESSAGE_SIZE) != bridge.StatusMessageSize {
		return fmt.Errorf("cimage: status message holds %d bytes in C but %d in Go", int(C.CIMAGE_STATUS_MESSAGE_SIZE), bridge.StatusMessageSize)
	}

	for k := bridge.KindNone; k <= bridge.KindAllocation; k++ {
		if name := C.GoString(C.cimage_error_kind_name(C.int32_t(k))); name != k.String() {
			return fmt.Errorf("cimage: error kind %d is %q in C but %q in Go", int32(k), name, k)
		}
	}
	return nil
}

func main() {}
