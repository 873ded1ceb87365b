package xmperr

import (
	"fmt"
	"sync"

	"github.com/signadot/xmpdom/debug"
)

// Notifier decides whether a raised record is recoverable. Returning true
// lets the raising operation continue with its fallback; false aborts it.
type Notifier interface {
	Notify(e *Error) bool
}

type NotifierFunc func(e *Error) bool

func (f NotifierFunc) Notify(e *Error) bool { return f(e) }

type fatal struct{}

func (fatal) Notify(*Error) bool { return false }

// Fatal is the default notifier: nothing is recoverable.
var Fatal Notifier = fatal{}

// WarningsRecoverable is a notifier that recovers exactly the records
// raised with SeverityWarning.
var WarningsRecoverable Notifier = NotifierFunc(func(e *Error) bool {
	return e.Severity <= SeverityWarning
})

var (
	mu       sync.RWMutex
	notifier Notifier = Fatal
)

// SetNotifier installs n as the process notifier and returns the previous
// one. A nil n restores Fatal.
func SetNotifier(n Notifier) Notifier {
	if n == nil {
		n = Fatal
	}
	mu.Lock()
	defer mu.Unlock()
	prev := notifier
	notifier = n
	return prev
}

// CurrentNotifier returns the installed notifier.
func CurrentNotifier() Notifier {
	mu.RLock()
	defer mu.RUnlock()
	return notifier
}

// Notify delivers e to the installed notifier. A panicking notifier
// counts as a fatal verdict.
func Notify(e *Error) (ok bool) {
	n := CurrentNotifier()
	defer func() {
		if r := recover(); r != nil {
			e.Append(New(General, UnknownExceptionCaught, SeverityOperationFatal,
				"notifier panicked: %v", r))
			ok = false
		}
	}()
	ok = n.Notify(e)
	if debug.Notify() {
		debug.Logf("notify %v -> %t\n", e, ok)
	}
	return ok
}

// Raise builds a record, delivers it to the notifier and returns it along
// with the verdict.
func Raise(d Domain, c Code, sev Severity, format string, args ...any) (*Error, bool) {
	e := New(d, c, sev, format, args...)
	return e, Notify(e)
}

// Fail is Raise for failures which always propagate to the caller
// regardless of the notifier verdict.
func Fail(d Domain, c Code, format string, args ...any) *Error {
	e := New(d, c, SeverityOperationFatal, format, args...)
	Notify(e)
	return e
}

// Failf is Fail with a location.
func Failf(loc string, d Domain, c Code, format string, args ...any) *Error {
	e := New(d, c, SeverityOperationFatal, format, args...).At(loc)
	Notify(e)
	return e
}

// Guard converts a panic in the calling function into a record stored in
// *errp. It must be deferred directly:
//
//	defer xmperr.Guard(&err, "rdf parser")
//
// Panics carrying an error become ClientThrownExceptionCaught with the
// error as Cause, anything else becomes UnknownExceptionCaught.
func Guard(errp *error, where string) {
	r := recover()
	if r == nil {
		return
	}
	var e *Error
	switch x := r.(type) {
	case *Error:
		e = x
	case error:
		e = New(General, ClientThrownExceptionCaught, SeverityOperationFatal, "panic in %s", where)
		e.Cause = x
	default:
		e = New(General, UnknownExceptionCaught, SeverityOperationFatal, "panic in %s: %s", where, fmt.Sprint(x))
	}
	if e.Location == "" {
		e.At(where)
	}
	Notify(e)
	*errp = e
}
