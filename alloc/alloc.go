// Package alloc holds the pluggable buffer allocator used for serialized
// output.
package alloc

import (
	"sync"
	"sync/atomic"

	"github.com/signadot/xmpdom/xmperr"
)

// Allocator supplies byte buffers. Allocate returns a slice of length n.
type Allocator interface {
	Allocate(n int) ([]byte, error)
	Free(b []byte)
}

type heap struct{}

func (heap) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, xmperr.Fail(xmperr.MemoryManagement, xmperr.AllocationFailure, "negative size %d", n)
	}
	return make([]byte, n), nil
}

func (heap) Free([]byte) {}

// Heap is the default allocator.
var Heap Allocator = heap{}

var (
	mu      sync.RWMutex
	current Allocator = Heap
)

// Set installs a as the process allocator, returning the previous one. A
// nil a restores Heap.
func Set(a Allocator) Allocator {
	if a == nil {
		a = Heap
	}
	mu.Lock()
	defer mu.Unlock()
	prev := current
	current = a
	return prev
}

func Current() Allocator {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Copy allocates a buffer from the current allocator and copies d into
// it. Allocator failures are reported as AllocationFailure records.
func Copy(d []byte) (res []byte, err error) {
	a := Current()
	defer xmperr.Guard(&err, "allocator")
	res, err = a.Allocate(len(d))
	if err != nil {
		if _, ok := xmperr.As(err); !ok {
			e := xmperr.Fail(xmperr.MemoryManagement, xmperr.AllocationFailure, "%d bytes", len(d))
			e.Cause = err
			err = e
		}
		return nil, err
	}
	if len(res) < len(d) {
		a.Free(res)
		return nil, xmperr.Fail(xmperr.MemoryManagement, xmperr.AllocationFailure,
			"allocator returned %d bytes, need %d", len(res), len(d))
	}
	res = res[:len(d)]
	copy(res, d)
	return res, nil
}

// Limited wraps an allocator, failing once more than Max bytes are live.
type Limited struct {
	Allocator Allocator
	Max       int64

	live atomic.Int64
}

func (l *Limited) Allocate(n int) ([]byte, error) {
	if l.live.Add(int64(n)) > l.Max {
		l.live.Add(-int64(n))
		return nil, xmperr.Fail(xmperr.MemoryManagement, xmperr.AllocationFailure,
			"limit %d exceeded", l.Max)
	}
	inner := l.Allocator
	if inner == nil {
		inner = Heap
	}
	b, err := inner.Allocate(n)
	if err != nil {
		l.live.Add(-int64(n))
	}
	return b, err
}

func (l *Limited) Free(b []byte) {
	l.live.Add(-int64(cap(b)))
	inner := l.Allocator
	if inner == nil {
		inner = Heap
	}
	inner.Free(b)
}

// Live returns the number of bytes currently allocated through l.
func (l *Limited) Live() int64 {
	return l.live.Load()
}
