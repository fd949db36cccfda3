// Package bridge implements the ownership protocol behind the cimage C ABI.
//
// A decode produces two blocks of C heap memory: the pixel buffer and the
// handle record that points at it. Both are allocated through one Allocator
// and handed to the caller as a unit; Release frees both through the same
// Allocator. Nothing allocated here is ever touched by the Go garbage
// collector.
//
// # Handle Layout
//
// Image mirrors the C struct exactly:
//
//	typedef struct { uint8_t r, g, b, a; } cimage_rgba8;
//	typedef struct {
//	    uint32_t      width;
//	    uint32_t      height;
//	    cimage_rgba8 *pixels;
//	} cimage_image;
//
// The buffer holds width*height pixels, row-major, with row 0 holding the
// bottom row of the source image. A handle with zero pixels has a NULL
// pixels pointer.
//
// # Ownership Rules
//
// A handle is issued by Decode and consumed by Release, exactly once. Using a
// handle after Release, releasing it twice, or releasing memory that Decode
// did not return is undefined behavior. Builds tagged cimage_debug (or a
// Bridge created with Options.Debug) keep a Ledger of issued handles and turn
// those mistakes into ErrCallerMisuse instead of a double free.
//
// # Failure
//
// Decode either returns a fully built handle or returns an *Error and leaves
// no memory allocated. It never panics on a bad file.
//
// # Thread Safety
//
// Decode and Release keep no shared state in release builds. Independent
// handles may be decoded and released from any number of goroutines. Racing
// on the same handle is the caller's bug.
package bridge
