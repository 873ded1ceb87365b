package handle

import (
	"sync/atomic"

	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/xmperr"
)

// Shared is the reference counting half of Object.
type Shared interface {
	Acquire() error
	Release() error
	RefCount() int32
}

// Ref is an embeddable atomic reference count. The zero Ref holds one
// reference and has no destroy hook.
type Ref struct {
	// extra is the count minus one, so the zero value holds one reference
	// and -1 marks a destroyed object.
	extra   atomic.Int32
	destroy func()
}

// OnDestroy sets the hook run when the count reaches zero.
func (r *Ref) OnDestroy(f func()) {
	r.destroy = f
}

func (r *Ref) Acquire() error {
	for {
		h := r.extra.Load()
		if h < 0 {
			return xmperr.Fail(xmperr.General, xmperr.LogicalError, "acquire after destroy")
		}
		if r.extra.CompareAndSwap(h, h+1) {
			if debug.Refs() {
				debug.Logf("acquire %p -> %d\n", r, h+2)
			}
			return nil
		}
	}
}

// Release drops one reference and destroys the object synchronously when
// it was the last one.
func (r *Ref) Release() error {
	for {
		h := r.extra.Load()
		if h < 0 {
			return xmperr.Fail(xmperr.General, xmperr.LogicalError, "release after destroy")
		}
		if !r.extra.CompareAndSwap(h, h-1) {
			continue
		}
		if debug.Refs() {
			debug.Logf("release %p -> %d\n", r, h)
		}
		if h == 0 && r.destroy != nil {
			r.destroy()
		}
		return nil
	}
}

// RefCount returns the live count, 0 once destroyed.
func (r *Ref) RefCount() int32 {
	return r.extra.Load() + 1
}

// Alive reports whether the count has not reached zero.
func (r *Ref) Alive() bool {
	return r.extra.Load() >= 0
}
