package encode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	qualifiers    bool

	prefixes *nsmap.Map
	Color    func(dom.Kind, ColorAttr, string) string
}

// Encode writes the outline of n to w. The root of a document is not
// written itself: its children start at the first level.
func Encode(n *dom.Node, w io.Writer, opts ...EncodeOption) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrEncoding)
	}
	es := &EncState{
		indent:     2,
		qualifiers: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.prefixes == nil {
		es.prefixes = nsmap.New()
		if doc := n.Document(); doc != nil {
			es.prefixes.Merge(doc.Prefixes())
		}
		es.prefixes.Merge(nsmap.Default())
	}
	if doc := n.Document(); doc != nil && doc.Node == n {
		for _, c := range n.Children() {
			if err := encode(w, c, es.name(c), es.depth, es); err != nil {
				return err
			}
		}
		return nil
	}
	label := es.name(n)
	if n.IsArrayItem() {
		label = "-"
	} else if n.IsQualifier() {
		label = "@" + label
	}
	return encode(w, n, label, es.depth, es)
}

func (es *EncState) color(k dom.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

// name renders the qualified name of n, falling back to {uri}name for a
// namespace without a prefix.
func (es *EncState) name(n *dom.Node) string {
	ns := n.Namespace()
	if es.prefixes.HasNamespace(ns) {
		p, _ := es.prefixes.Prefix(ns)
		return p + ":" + n.Name()
	}
	return "{" + ns + "}" + n.Name()
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func (es *EncState) pad(depth int) string {
	return strings.Repeat(" ", es.indent*depth)
}

// encode writes n on one line after label, then its qualifiers and
// children one level deeper. Array items use "-" as label.
func encode(w io.Writer, n *dom.Node, label string, depth int, es *EncState) error {
	k := n.Kind()
	head := es.pad(depth)
	if label == "-" {
		head += es.color(k, SepColor, "-") + " "
	} else {
		attr := NameColor
		if strings.HasPrefix(label, "@") {
			attr = QualifierColor
		}
		head += es.color(k, attr, label) + es.color(k, SepColor, ":") + " "
	}
	if err := writeString(w, head+es.value(n)+"\n"); err != nil {
		return err
	}
	if es.qualifiers {
		for _, q := range n.Qualifiers() {
			if err := encode(w, q, "@"+es.name(q), depth+1, es); err != nil {
				return err
			}
		}
	}
	switch k {
	case dom.ArrayKind:
		for _, c := range n.Children() {
			if err := encode(w, c, "-", depth+1, es); err != nil {
				return err
			}
		}
	case dom.StructureKind:
		for _, c := range n.Children() {
			if err := encode(w, c, es.name(c), depth+1, es); err != nil {
				return err
			}
		}
	}
	return nil
}

func (es *EncState) value(n *dom.Node) string {
	switch n.Kind() {
	case dom.ArrayKind:
		return es.color(dom.ArrayKind, TagColor, "["+n.Form().String()+"]")
	case dom.StructureKind:
		return es.color(dom.StructureKind, TagColor, "{}")
	}
	var v string
	if n.IsURI() {
		v = es.color(dom.SimpleKind, URIColor, "<"+n.Value()+">")
	} else {
		v = es.color(dom.SimpleKind, ValueColor, strconv.Quote(n.Value()))
	}
	if h := n.TypeHint(); h != "" {
		v += " " + es.color(dom.SimpleKind, HintColor, "^^"+h)
	}
	return v
}
