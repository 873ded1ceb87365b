package dom

import "fmt"

// Kind is the intrinsic variant of a Node.
type Kind int

const (
	NoKind Kind = iota
	SimpleKind
	ArrayKind
	StructureKind
)

func (k Kind) String() string {
	switch k {
	case SimpleKind:
		return "simple"
	case ArrayKind:
		return "array"
	case StructureKind:
		return "structure"
	default:
		return "none"
	}
}

func ParseKind(v string) (Kind, error) {
	k, ok := map[string]Kind{
		"simple":    SimpleKind,
		"array":     ArrayKind,
		"structure": StructureKind,
	}[v]
	if ok {
		return k, nil
	}
	return NoKind, fmt.Errorf("unknown node kind %q", v)
}

// IsComposite reports whether nodes of kind k own children.
func (k Kind) IsComposite() bool {
	return k == ArrayKind || k == StructureKind
}

// ArrayForm tells how the items of an array relate to each other.
type ArrayForm int

const (
	Unordered ArrayForm = iota
	Ordered
	Alternative
)

func (f ArrayForm) String() string {
	switch f {
	case Unordered:
		return "unordered"
	case Ordered:
		return "ordered"
	case Alternative:
		return "alternative"
	default:
		return fmt.Sprintf("<form %d>", int(f))
	}
}

func ParseArrayForm(v string) (ArrayForm, error) {
	f, ok := map[string]ArrayForm{
		"unordered":   Unordered,
		"ordered":     Ordered,
		"alternative": Alternative,
		"bag":         Unordered,
		"seq":         Ordered,
		"alt":         Alternative,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown array form %q", v)
}
