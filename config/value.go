package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/xmpdom/xmperr"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	NoKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	PointerKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case PointerKind:
		return "pointer"
	default:
		return "none"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	k, ok := map[string]Kind{
		"bool":    BoolKind,
		"int":     IntKind,
		"float":   FloatKind,
		"string":  StringKind,
		"pointer": PointerKind,
	}[s]
	if ok {
		return k, nil
	}
	return NoKind, fmt.Errorf("unknown kind %q", s)
}

// Value is a closed variant over bool, int64, float64, string and an
// opaque pointer. The zero Value has NoKind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	p    any
}

func Bool(v bool) Value { return Value{kind: BoolKind, b: v} }
func Int(v int64) Value { return Value{kind: IntKind, i: v} }
func Float(v float64) Value { return Value{kind: FloatKind, f: v} }
func String(v string) Value { return Value{kind: StringKind, s: v} }
func Pointer(v any) Value { return Value{kind: PointerKind, p: v} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) Bool() bool { return v.b }
func (v Value) Int() int64 { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string { return v.s }
func (v Value) Pointer() any { return v.p }

// FromAny converts a Go value into a Value. Integers of any width map to
// IntKind; an unsigned value beyond the int64 range is refused. Anything
// unrecognised is stored as a pointer.
func FromAny(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	default:
		return Pointer(v), nil
	}
}

func fromUint(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return Value{}, xmperr.Fail(xmperr.Configuration, xmperr.ValueNotSupported, "%d overflows an int", v)
	}
	return Int(int64(v)), nil
}

// Any returns the held Go value.
func (v Value) Any() any {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case StringKind:
		return v.s
	case PointerKind:
		return v.p
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		return strconv.FormatBool(v.b)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringKind:
		return strconv.Quote(v.s)
	case PointerKind:
		return fmt.Sprintf("<%T>", v.p)
	default:
		return "<none>"
	}
}
