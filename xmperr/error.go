package xmperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a structured error record.
type Error struct {
	Domain   Domain
	Code     Code
	Severity Severity
	Message  string
	// Location optionally names where the record was raised, such as a
	// path or a plugin format id.
	Location string
	Params   []string
	// Next chains a further record describing the same failure.
	Next  *Error
	Cause error
}

// New builds a record without notifying anyone.
func New(d Domain, c Code, sev Severity, format string, args ...any) *Error {
	msg := format
	if len(args) != 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Domain: d, Code: c, Severity: sev, Message: msg}
}

// Of returns a template record for use with errors.Is.
func Of(d Domain, c Code) *Error {
	return &Error{Domain: d, Code: c}
}

func (e *Error) Error() string {
	buf := &strings.Builder{}
	e.write(buf)
	for n := e.Next; n != nil; n = n.Next {
		buf.WriteString("; ")
		n.write(buf)
	}
	return buf.String()
}

func (e *Error) write(buf *strings.Builder) {
	fmt.Fprintf(buf, "%s: %s", e.Domain, CodeName(e.Domain, e.Code))
	if e.Location != "" {
		fmt.Fprintf(buf, " at %s", e.Location)
	}
	if e.Message != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(buf, " (%v)", e.Cause)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same domain and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Domain == e.Domain && t.Code == e.Code
}

// At sets the location and returns e.
func (e *Error) At(loc string) *Error {
	e.Location = loc
	return e
}

// WithParams appends parameters and returns e.
func (e *Error) WithParams(ps ...string) *Error {
	e.Params = append(e.Params, ps...)
	return e
}

// Append chains n at the end of e's Next list.
func (e *Error) Append(n *Error) *Error {
	last := e
	for last.Next != nil {
		last = last.Next
	}
	last.Next = n
	return e
}

// Is reports whether err is, or wraps, a record of domain d with code c.
func Is(err error, d Domain, c Code) bool {
	return errors.Is(err, Of(d, c))
}

// As extracts the first record in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
