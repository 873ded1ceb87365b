package mpath

import (
	"strconv"
	"strings"

	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Parse reads the path syntax produced by String, resolving prefixes with
// m. The empty string parses to the empty path. A path applied to an
// array may start with an index or a selector.
//
// Examples:
//   - "dc:title" → [Property(dc, title)]
//   - "dc:title[1]/@xml:lang" → [Property(dc, title), Index(1), Qualifier(xml, lang)]
//   - "dc:title[?xml:lang=\"x-default\"]" → [Property(dc, title), Selector(xml, lang, x-default)]
func Parse(s string, m Namespaces) (*Path, error) {
	ps := &pathScanner{src: s, m: m}
	p := &Path{}
	for ps.i < len(s) {
		seg, err := ps.next(p.Len() == 0)
		if err != nil {
			return nil, err
		}
		p.segs = append(p.segs, seg)
	}
	return p, nil
}

// MustParse is Parse which panics on error.
func MustParse(s string, m Namespaces) *Path {
	p, err := Parse(s, m)
	if err != nil {
		panic(err)
	}
	return p
}

type pathScanner struct {
	src string
	i   int
	m   Namespaces
}

func (ps *pathScanner) fail(format string, args ...any) error {
	e := xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, format, args...)
	e.At(strconv.Quote(ps.src) + " offset " + strconv.Itoa(ps.i))
	return e
}

func (ps *pathScanner) next(first bool) (Segment, error) {
	c := ps.src[ps.i]
	switch c {
	case '[':
		return ps.bracket()
	case '/':
		if first {
			return Segment{}, ps.fail("path starts with '/'")
		}
		ps.i++
		if ps.i == len(ps.src) {
			return Segment{}, ps.fail("trailing '/'")
		}
		return ps.named()
	default:
		if !first {
			return Segment{}, ps.fail("expected '/' or '['")
		}
		return ps.named()
	}
}

func (ps *pathScanner) named() (Segment, error) {
	kind := PropertySegment
	if ps.src[ps.i] == '@' {
		kind = QualifierSegment
		ps.i++
	}
	end := strings.IndexAny(ps.src[ps.i:], "/[")
	if end < 0 {
		end = len(ps.src) - ps.i
	}
	ns, name, err := ps.qname(ps.src[ps.i : ps.i+end])
	if err != nil {
		return Segment{}, err
	}
	ps.i += end
	return Segment{Kind: kind, Namespace: ns, Name: name}, nil
}

func (ps *pathScanner) qname(q string) (string, string, error) {
	prefix, name, ok := strings.Cut(q, ":")
	if !ok {
		return "", "", ps.fail("name %q has no prefix", q)
	}
	if !nsmap.ValidPrefix(prefix) || !nsmap.ValidName(name) {
		return "", "", ps.fail("invalid name %q", q)
	}
	if ps.m == nil {
		return "", "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "no prefix map")
	}
	ns, err := ps.m.Namespace(prefix)
	if err != nil {
		return "", "", err
	}
	return ns, name, nil
}

func (ps *pathScanner) bracket() (Segment, error) {
	ps.i++
	if ps.i < len(ps.src) && ps.src[ps.i] == '?' {
		return ps.selector()
	}
	end := strings.IndexByte(ps.src[ps.i:], ']')
	if end < 0 {
		return Segment{}, ps.fail("unterminated index")
	}
	digits := ps.src[ps.i : ps.i+end]
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || strings.HasPrefix(digits, "+") {
		return Segment{}, ps.fail("bad index %q", digits)
	}
	ps.i += end + 1
	return Index(n), nil
}

func (ps *pathScanner) selector() (Segment, error) {
	ps.i++
	eq := strings.IndexByte(ps.src[ps.i:], '=')
	if eq < 0 {
		return Segment{}, ps.fail("selector without '='")
	}
	ns, name, err := ps.qname(ps.src[ps.i : ps.i+eq])
	if err != nil {
		return Segment{}, err
	}
	ps.i += eq + 1
	if ps.i >= len(ps.src) || ps.src[ps.i] != '"' {
		return Segment{}, ps.fail("selector value must be quoted")
	}
	j := ps.i + 1
	for ; j < len(ps.src); j++ {
		if ps.src[j] == '\\' {
			j++
			continue
		}
		if ps.src[j] == '"' {
			break
		}
	}
	if j >= len(ps.src) {
		return Segment{}, ps.fail("unterminated selector value")
	}
	v, err := strconv.Unquote(ps.src[ps.i : j+1])
	if err != nil {
		return Segment{}, ps.fail("bad selector value: %v", err)
	}
	ps.i = j + 1
	if ps.i >= len(ps.src) || ps.src[ps.i] != ']' {
		return Segment{}, ps.fail("unterminated selector")
	}
	ps.i++
	return Selector(ns, name, v), nil
}
