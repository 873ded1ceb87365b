package mpath

import (
	"fmt"
	"strconv"
)

type SegmentKind int

const (
	NoSegment SegmentKind = iota
	PropertySegment
	ArrayIndexSegment
	QualifierSegment
	QualifierSelectorSegment
)

func (k SegmentKind) String() string {
	switch k {
	case PropertySegment:
		return "property"
	case ArrayIndexSegment:
		return "index"
	case QualifierSegment:
		return "qualifier"
	case QualifierSelectorSegment:
		return "selector"
	default:
		return "none"
	}
}

// Segment is one step of a Path. Namespace and Name apply to property,
// qualifier and selector segments, Index to array index segments and
// Value to selector segments.
type Segment struct {
	Kind      SegmentKind
	Namespace string
	Name      string
	Index     int
	Value     string
}

// Property addresses the child (ns, name) of a structure.
func Property(ns, name string) Segment {
	return Segment{Kind: PropertySegment, Namespace: ns, Name: name}
}

// Index addresses the 1-based item i of an array.
func Index(i int) Segment {
	return Segment{Kind: ArrayIndexSegment, Index: i}
}

// Qualifier addresses the qualifier (ns, name) of the current node.
func Qualifier(ns, name string) Segment {
	return Segment{Kind: QualifierSegment, Namespace: ns, Name: name}
}

// Selector addresses the first array item carrying a simple qualifier
// (ns, name) whose value is v.
func Selector(ns, name, v string) Segment {
	return Segment{Kind: QualifierSelectorSegment, Namespace: ns, Name: name, Value: v}
}

// Named reports whether s carries a namespace and name.
func (s Segment) Named() bool {
	switch s.Kind {
	case PropertySegment, QualifierSegment, QualifierSelectorSegment:
		return true
	}
	return false
}

// String renders s with the namespace URI in braces, for diagnostics.
func (s Segment) String() string {
	switch s.Kind {
	case PropertySegment:
		return fmt.Sprintf("{%s}%s", s.Namespace, s.Name)
	case ArrayIndexSegment:
		return "[" + strconv.Itoa(s.Index) + "]"
	case QualifierSegment:
		return fmt.Sprintf("@{%s}%s", s.Namespace, s.Name)
	case QualifierSelectorSegment:
		return fmt.Sprintf("[?{%s}%s=%s]", s.Namespace, s.Name, strconv.Quote(s.Value))
	default:
		return "<bad segment>"
	}
}
