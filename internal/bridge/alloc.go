package bridge

/*
#include <stdlib.h>

// C.malloc is wrapped by cgo to abort on NULL; call the C library directly so
// an exhausted heap surfaces as KindAllocation instead.
static void *cimage_malloc(size_t size) {
    return malloc(size);
}

static void cimage_free(void *p) {
    free(p);
}
*/
import "C"

import "unsafe"

// Allocator hands out and reclaims raw memory blocks that outlive a single
// call. Free receives the same size that was passed to Alloc for that block.
type Allocator interface {
	// Alloc returns a block of at least size bytes, or nil when none is
	// available. size is never zero.
	Alloc(size uintptr) unsafe.Pointer

	// Free releases a block previously returned by Alloc.
	Free(p unsafe.Pointer, size uintptr)
}

// CAllocator allocates from the C heap with malloc and releases with free.
//
// It is the only allocator the shared library uses, so every block a C
// caller receives was obtained from, and is returned to, the same heap.
type CAllocator struct{}

func (CAllocator) Alloc(size uintptr) unsafe.Pointer {
	return C.cimage_malloc(C.size_t(size))
}

func (CAllocator) Free(p unsafe.Pointer, _ uintptr) {
	C.cimage_free(p)
}
