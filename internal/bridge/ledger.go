package bridge

import (
	"sync"
	"unsafe"
)

// Ledger remembers which handles are currently issued so that a repeated or
// foreign Release can be refused instead of corrupting the heap.
//
// Entries are keyed by address. Once a handle is released its address may be
// handed out again by the allocator, after which a stale release of the old
// handle is indistinguishable from a release of the new one.
type Ledger struct {
	mu     sync.Mutex
	next   uint64
	issued map[uintptr]uint64
}

// NewLedger returns an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{issued: make(map[uintptr]uint64)}
}

// Issue records p as live and returns its generation number.
func (l *Ledger) Issue(p unsafe.Pointer) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.issued[uintptr(p)] = l.next
	return l.next
}

// Consume marks p as released. It returns the generation p was issued with,
// or ErrCallerMisuse if p is not currently live.
func (l *Ledger) Consume(p unsafe.Pointer) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gen, ok := l.issued[uintptr(p)]
	if !ok {
		return 0, &Error{Kind: KindCallerMisuse, Err: errNotIssued}
	}
	delete(l.issued, uintptr(p))
	return gen, nil
}

// Live returns the number of issued handles not yet consumed.
func (l *Ledger) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.issued)
}
