// Package wire is the plain data form of a document shared by the JSON
// and YAML encodings.
//
// Properties, fields and qualifiers are keyed by "prefix:name". The
// prefixes are declared in the document's namespaces, falling back to
// the well known ones. A node without a kind is simple.
package wire

import (
	"slices"
	"strings"

	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

type Document struct {
	About      string            `json:"about,omitempty" yaml:"about,omitempty"`
	Namespaces map[string]string `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
	Properties map[string]*Node  `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type Node struct {
	Kind       string           `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value      string           `json:"value,omitempty" yaml:"value,omitempty"`
	URI        bool             `json:"uri,omitempty" yaml:"uri,omitempty"`
	Type       string           `json:"type,omitempty" yaml:"type,omitempty"`
	Form       string           `json:"form,omitempty" yaml:"form,omitempty"`
	Items      []*Node          `json:"items,omitempty" yaml:"items,omitempty"`
	Fields     map[string]*Node `json:"fields,omitempty" yaml:"fields,omitempty"`
	Qualifiers map[string]*Node `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
}

// Encode converts md, naming namespaces through m with plugin.PrefixFor.
func Encode(md *dom.Metadata, m *nsmap.Map) (*Document, error) {
	doc := &Document{About: md.AboutURI()}
	for _, ns := range md.Namespaces() {
		p, err := plugin.PrefixFor(m, ns)
		if err != nil {
			return nil, err
		}
		if doc.Namespaces == nil {
			doc.Namespaces = map[string]string{}
		}
		doc.Namespaces[p] = ns
	}
	e := &encoder{m: m}
	props, err := e.keyed(md.Children())
	if err != nil {
		return nil, err
	}
	doc.Properties = props
	return doc, nil
}

type encoder struct {
	m *nsmap.Map
}

func (e *encoder) key(n *dom.Node) (string, error) {
	p, err := plugin.PrefixFor(e.m, n.Namespace())
	if err != nil {
		return "", err
	}
	return p + ":" + n.Name(), nil
}

func (e *encoder) keyed(ns []*dom.Node) (map[string]*Node, error) {
	if len(ns) == 0 {
		return nil, nil
	}
	res := make(map[string]*Node, len(ns))
	for _, n := range ns {
		k, err := e.key(n)
		if err != nil {
			return nil, err
		}
		w, err := e.node(n)
		if err != nil {
			return nil, err
		}
		res[k] = w
	}
	return res, nil
}

func (e *encoder) node(n *dom.Node) (*Node, error) {
	w := &Node{}
	switch n.Kind() {
	case dom.SimpleKind:
		w.Value = n.Value()
		w.URI = n.IsURI()
		w.Type = n.TypeHint()
	case dom.ArrayKind:
		w.Kind = dom.ArrayKind.String()
		w.Form = n.Form().String()
		w.Items = []*Node{}
		for _, c := range n.Children() {
			item, err := e.node(c)
			if err != nil {
				return nil, err
			}
			w.Items = append(w.Items, item)
		}
	case dom.StructureKind:
		w.Kind = dom.StructureKind.String()
		fields, err := e.keyed(n.Children())
		if err != nil {
			return nil, err
		}
		w.Fields = fields
	}
	quals, err := e.keyed(n.Qualifiers())
	if err != nil {
		return nil, err
	}
	w.Qualifiers = quals
	return w, nil
}

// Decode builds a document from doc. Keyed nodes are attached in key
// order.
func Decode(doc *Document) (*dom.Metadata, error) {
	md := dom.NewMetadata()
	if doc == nil {
		return md, nil
	}
	for _, p := range sortedKeys(doc.Namespaces) {
		if err := md.Prefixes().Insert(p, doc.Namespaces[p]); err != nil {
			md.Release()
			return nil, err
		}
	}
	md.SetAboutURI(doc.About)
	d := &decoder{m: md.Prefixes()}
	for _, k := range sortedKeys(doc.Properties) {
		n, err := d.node(k, doc.Properties[k])
		if err == nil {
			if err = md.Append(n); err != nil {
				n.Release()
			}
		}
		if err != nil {
			md.Release()
			return nil, err
		}
	}
	md.AcknowledgeChanges()
	return md, nil
}

func sortedKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

type decoder struct {
	m *nsmap.Map
}

func badSchema(key, format string, args ...any) error {
	return xmperr.Fail(xmperr.DataModel, xmperr.BadSchema, format, args...).At(key)
}

func (d *decoder) name(key string) (string, string, error) {
	p, name, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", badSchema(key, "key is not prefix:name")
	}
	for _, m := range []*nsmap.Map{d.m, nsmap.Default()} {
		if m.HasPrefix(p) {
			ns, err := m.Namespace(p)
			return ns, name, err
		}
	}
	return "", "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "prefix %q", p).At(key)
}

func (d *decoder) node(key string, w *Node) (*dom.Node, error) {
	if w == nil {
		return nil, badSchema(key, "null node")
	}
	ns, name, err := d.name(key)
	if err != nil {
		return nil, err
	}
	kind := dom.SimpleKind
	if w.Kind != "" {
		if kind, err = dom.ParseKind(w.Kind); err != nil {
			return nil, badSchema(key, "%v", err)
		}
	}
	if m := shape(kind, w); m != "" {
		return nil, badSchema(key, "%s node with %s", kind, m)
	}
	var n *dom.Node
	switch kind {
	case dom.SimpleKind:
		if n, err = dom.NewSimple(ns, name, w.Value); err != nil {
			return nil, err
		}
		n.SetURI(w.URI)
		if w.Type != "" {
			n.SetTypeHint(w.Type)
		}
	case dom.ArrayKind:
		form := dom.Unordered
		if w.Form != "" {
			if form, err = dom.ParseArrayForm(w.Form); err != nil {
				return nil, badSchema(key, "%v", err)
			}
		}
		if n, err = dom.NewArray(ns, name, form, false); err != nil {
			return nil, err
		}
		for _, it := range w.Items {
			if err := d.attach(key, it, n.Append); err != nil {
				n.Release()
				return nil, err
			}
		}
	case dom.StructureKind:
		if n, err = dom.NewStructure(ns, name); err != nil {
			return nil, err
		}
		for _, k := range sortedKeys(w.Fields) {
			if err := d.attach(k, w.Fields[k], n.Append); err != nil {
				n.Release()
				return nil, err
			}
		}
	}
	for _, k := range sortedKeys(w.Qualifiers) {
		if err := d.attach(k, w.Qualifiers[k], n.AddQualifier); err != nil {
			n.Release()
			return nil, err
		}
	}
	return n, nil
}

func (d *decoder) attach(key string, w *Node, f func(*dom.Node) error) error {
	c, err := d.node(key, w)
	if err != nil {
		return err
	}
	if err := f(c); err != nil {
		c.Release()
		return err
	}
	return nil
}

// shape names a member of w which does not belong to kind.
func shape(kind dom.Kind, w *Node) string {
	switch {
	case kind != dom.SimpleKind && (w.Value != "" || w.URI || w.Type != ""):
		return "value"
	case kind != dom.ArrayKind && (w.Items != nil || w.Form != ""):
		return "items"
	case kind != dom.StructureKind && w.Fields != nil:
		return "fields"
	}
	return ""
}
