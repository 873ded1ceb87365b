package mpath

import (
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Path is an ordered sequence of segments. The zero Path is empty and
// addresses the node resolution starts from.
type Path struct {
	segs []Segment
}

func New(segs ...Segment) *Path {
	return &Path{segs: slices.Clone(segs)}
}

func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.segs)
}

func (p *Path) IsEmpty() bool {
	return p.Len() == 0
}

// At returns the 1-based segment i.
func (p *Path) At(i int) (Segment, error) {
	if i < 1 || i > p.Len() {
		return Segment{}, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "segment %d of %d", i, p.Len())
	}
	return p.segs[i-1], nil
}

// Segments returns a copy of the segments.
func (p *Path) Segments() []Segment {
	if p == nil {
		return nil
	}
	return slices.Clone(p.segs)
}

// Append adds segments at the end and returns p.
func (p *Path) Append(segs ...Segment) *Path {
	p.segs = append(p.segs, segs...)
	return p
}

// Remove drops the 1-based segment i and returns it.
func (p *Path) Remove(i int) (Segment, error) {
	s, err := p.At(i)
	if err != nil {
		return s, err
	}
	p.segs = slices.Delete(p.segs, i-1, i)
	return s, nil
}

func (p *Path) Clear() {
	p.segs = nil
}

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	return New(p.Segments()...)
}

// Slice returns a new path holding count segments starting at the 1-based
// segment start. A count reaching past the end is clipped.
func (p *Path) Slice(start, count int) (*Path, error) {
	if start < 1 || start > p.Len() || count < 0 {
		return nil, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "slice %d+%d of %d", start, count, p.Len())
	}
	end := min(start-1+count, p.Len())
	return New(p.segs[start-1 : end]...), nil
}

// Parent returns p without its last segment. The parent of the empty path
// is nil.
func (p *Path) Parent() *Path {
	if p.Len() == 0 {
		return nil
	}
	return New(p.segs[:len(p.segs)-1]...)
}

func (p *Path) Equal(o *Path) bool {
	return slices.Equal(p.Segments(), o.Segments())
}

// Prefixes maps a namespace URI to a prefix.
type Prefixes interface {
	Prefix(uri string) (string, error)
}

// Namespaces maps a prefix to a namespace URI.
type Namespaces interface {
	Namespace(prefix string) (string, error)
}

// String renders p in the path syntax. Properties are written as
// prefix:name and joined with '/', array indexes as [n] directly after
// their array, qualifiers as /@prefix:name and selectors as
// [?prefix:name="value"]. Every namespace must have a prefix in m.
func (p *Path) String(m Prefixes) (string, error) {
	buf := &strings.Builder{}
	for i, s := range p.Segments() {
		if s.Named() && m == nil {
			return "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "no prefix map")
		}
		switch s.Kind {
		case PropertySegment, QualifierSegment:
			prefix, err := m.Prefix(s.Namespace)
			if err != nil {
				return "", err
			}
			if i != 0 {
				buf.WriteByte('/')
			}
			if s.Kind == QualifierSegment {
				buf.WriteByte('@')
			}
			buf.WriteString(prefix)
			buf.WriteByte(':')
			buf.WriteString(s.Name)
		case ArrayIndexSegment:
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(s.Index))
			buf.WriteByte(']')
		case QualifierSelectorSegment:
			prefix, err := m.Prefix(s.Namespace)
			if err != nil {
				return "", err
			}
			buf.WriteString("[?")
			buf.WriteString(prefix)
			buf.WriteByte(':')
			buf.WriteString(s.Name)
			buf.WriteByte('=')
			buf.WriteString(strconv.Quote(s.Value))
			buf.WriteByte(']')
		default:
			return "", xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "segment %d has kind %s", i+1, s.Kind)
		}
	}
	return buf.String(), nil
}

// MustString is String which panics on error.
func (p *Path) MustString(m Prefixes) string {
	s, err := p.String(m)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks that every segment is well formed: named segments
// carry a namespace and a valid name, indexes are positive.
func (p *Path) Validate() error {
	for i, s := range p.Segments() {
		switch s.Kind {
		case PropertySegment, QualifierSegment, QualifierSelectorSegment:
			if s.Namespace == "" || !nsmap.ValidName(s.Name) {
				return xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "segment %d: %s", i+1, s)
			}
		case ArrayIndexSegment:
			if s.Index < 1 {
				return xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "segment %d: index %d", i+1, s.Index)
			}
		default:
			return xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "segment %d has kind %s", i+1, s.Kind)
		}
	}
	return nil
}

var _ Prefixes = (*nsmap.Map)(nil)
var _ Namespaces = (*nsmap.Map)(nil)
