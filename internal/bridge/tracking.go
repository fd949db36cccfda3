package bridge

import (
	"fmt"
	"sync"
	"unsafe"
)

// TrackingAllocator wraps another Allocator and keeps a record of every
// live block.
//
// Freeing a block it never handed out, or freeing with a size different from
// the one it was allocated with, is a logic error in this package and panics.
// Tests use the outstanding counters to prove that decode/release pairs
// return the heap to its baseline.
type TrackingAllocator struct {
	base Allocator

	mu     sync.Mutex
	live   map[uintptr]uintptr
	bytes  uintptr
	allocs uint64
	frees  uint64
}

// NewTrackingAllocator returns a TrackingAllocator over base. A nil base
// tracks the C heap.
func NewTrackingAllocator(base Allocator) *TrackingAllocator {
	if base == nil {
		base = CAllocator{}
	}
	return &TrackingAllocator{
		base: base,
		live: make(map[uintptr]uintptr),
	}
}

func (a *TrackingAllocator) Alloc(size uintptr) unsafe.Pointer {
	p := a.base.Alloc(size)
	if p == nil {
		return nil
	}

	a.mu.Lock()
	a.live[uintptr(p)] = size
	a.bytes += size
	a.allocs++
	a.mu.Unlock()

	return p
}

func (a *TrackingAllocator) Free(p unsafe.Pointer, size uintptr) {
	a.mu.Lock()
	want, ok := a.live[uintptr(p)]
	if !ok {
		a.mu.Unlock()
		panic(fmt.Sprintf("cimage: free of untracked block %p", p))
	}
	if want != size {
		a.mu.Unlock()
		panic(fmt.Sprintf("cimage: block %p freed with size %d, allocated with %d", p, size, want))
	}
	delete(a.live, uintptr(p))
	a.bytes -= size
	a.frees++
	a.mu.Unlock()

	a.base.Free(p, size)
}

// Outstanding returns the number of blocks allocated and not yet freed.
func (a *TrackingAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// OutstandingBytes returns the total size of the live blocks.
func (a *TrackingAllocator) OutstandingBytes() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bytes
}

// AllocStats summarizes a TrackingAllocator's lifetime activity.
type AllocStats struct {
	Allocs           uint64 `json:"allocs"`
	Frees            uint64 `json:"frees"`
	Outstanding      int    `json:"outstanding"`
	OutstandingBytes uint64 `json:"outstanding_bytes"`
}

// Stats returns a consistent snapshot of the counters.
func (a *TrackingAllocator) Stats() AllocStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AllocStats{
		Allocs:           a.allocs,
		Frees:            a.frees,
		Outstanding:      len(a.live),
		OutstandingBytes: uint64(a.bytes),
	}
}
