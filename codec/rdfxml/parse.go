package rdfxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

// Parser options.
const (
	// RequireXMPMeta makes a missing x:xmpmeta wrapper an error.
	RequireXMPMeta = "rqMetaEl"
	// StrictAliasing makes a property described twice an error. Otherwise
	// the last description wins.
	StrictAliasing = "sctAlias"
)

type Parser struct {
	cfg *config.Store
}

// NewParser returns an RDF/XML parser with default options.
func NewParser() plugin.Parser {
	return &Parser{cfg: config.New(
		config.CaseInsensitive(),
		config.Strict(true),
		config.AllowKey(RequireXMPMeta, config.BoolKind),
		config.AllowKey(StrictAliasing, config.BoolKind),
		config.Defaults(map[string]config.Value{
			RequireXMPMeta: config.Bool(false),
			StrictAliasing: config.Bool(false),
		}),
	)}
}

func (p *Parser) Config() *config.Store {
	return p.cfg
}

// elem is a decoded element with resolved names.
type elem struct {
	name  xml.Name
	attrs []xml.Attr
	kids  []*elem
	text  strings.Builder
}

func (e *elem) is(ns, local string) bool {
	return e.name.Space == ns && e.name.Local == local
}

func (e *elem) attr(ns, local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Space == ns && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// propertyAttrs returns the attributes which describe properties rather
// than syntax.
func (e *elem) propertyAttrs() []xml.Attr {
	var res []xml.Attr
	for _, a := range e.attrs {
		switch a.Name.Space {
		case "", "xmlns", nsmap.NSRDF, nsmap.NSXML:
			continue
		}
		res = append(res, a)
	}
	return res
}

// decode reads data into a forest of elements and records namespace
// declarations in m.
func decode(data []byte, m *nsmap.Map) ([]*elem, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		roots []*elem
		stack []*elem
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			e := xmperr.Fail(xmperr.Parser, xmperr.BadXML, "line %d", line)
			e.Cause = err
			return nil, e
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &elem{name: t.Name, attrs: append([]xml.Attr(nil), t.Attr...)}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" && a.Value != nsmap.NSXML {
					m.Register(a.Value, a.Name.Local)
				}
			}
			if len(stack) == 0 {
				roots = append(roots, e)
			} else {
				top := stack[len(stack)-1]
				top.kids = append(top.kids, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) != 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	return roots, nil
}

// findRDF locates rdf:RDF among the roots, directly or inside x:xmpmeta.
func findRDF(roots []*elem, requireMeta bool) (*elem, error) {
	for _, r := range roots {
		if r.is(nsmap.NSMeta, "xmpmeta") || r.is(nsmap.NSMeta, "xapmeta") {
			for _, k := range r.kids {
				if k.is(nsmap.NSRDF, "RDF") {
					return k, nil
				}
			}
			return nil, xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "x:xmpmeta without rdf:RDF")
		}
		if r.is(nsmap.NSRDF, "RDF") {
			if requireMeta {
				return nil, xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "rdf:RDF outside x:xmpmeta")
			}
			return r, nil
		}
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return nil, xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "no rdf:RDF element")
}

// Parse reads an XMP packet or bare RDF/XML. Input holding no element at
// all yields an empty document.
func (p *Parser) Parse(data []byte) (*dom.Node, error) {
	md := dom.NewMetadata()
	roots, err := decode(data, md.Prefixes())
	if err != nil {
		return nil, err
	}
	rdf, err := findRDF(roots, p.cfg.BoolOr(RequireXMPMeta, false))
	if err != nil || rdf == nil {
		return md.Node, err
	}
	ps := &parseState{md: md, strict: p.cfg.BoolOr(StrictAliasing, false)}
	for _, d := range rdf.kids {
		if !d.is(nsmap.NSRDF, "Description") {
			if err := unsupported(d, "top level element"); err != nil {
				return nil, err
			}
			continue
		}
		if err := ps.description(d); err != nil {
			return nil, err
		}
	}
	md.AcknowledgeChanges()
	if debug.Parse() {
		debug.Logf("rdf: %d top level properties\n", md.Len())
	}
	return md.Node, nil
}

// unsupported reports markup this parser does not understand. It returns
// nil when the notifier lets the element be skipped.
func unsupported(e *elem, what string) error {
	err, ok := xmperr.Raise(xmperr.Parser, xmperr.BadRDF, xmperr.SeverityWarning,
		"unsupported %s {%s}%s", what, e.name.Space, e.name.Local)
	if ok {
		return nil
	}
	return err
}

type parseState struct {
	md     *dom.Metadata
	strict bool
	about  bool
}

func (ps *parseState) description(d *elem) error {
	if about, ok := d.attr(nsmap.NSRDF, "about"); ok {
		cur := ps.md.AboutURI()
		switch {
		case !ps.about || cur == "":
			ps.md.SetAboutURI(about)
			ps.about = true
		case about != "" && about != cur:
			return xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "mismatched rdf:about %q and %q", cur, about)
		}
	}
	for _, a := range d.propertyAttrs() {
		n, err := dom.NewSimple(a.Name.Space, a.Name.Local, a.Value)
		if err != nil {
			return err
		}
		if err := ps.add(n); err != nil {
			return err
		}
	}
	for _, k := range d.kids {
		n, err := property(k)
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if err := ps.add(n); err != nil {
			return err
		}
	}
	return nil
}

func (ps *parseState) add(n *dom.Node) error {
	old := ps.md.Lookup(n.Namespace(), n.Name())
	if old == nil {
		return ps.md.Append(n)
	}
	if ps.strict {
		n.Release()
		return xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "{%s}%s described twice", n.Namespace(), n.Name())
	}
	if err := ps.md.Replace(n, old); err != nil {
		return err
	}
	return old.Release()
}

// property builds the node described by property element e. A nil node
// with a nil error means e was skipped.
func property(e *elem) (*dom.Node, error) {
	var (
		n   *dom.Node
		err error
	)
	parseType, _ := e.attr(nsmap.NSRDF, "parseType")
	switch {
	case parseType == "Resource":
		n, err = resource(e)
	case parseType != "":
		return nil, unsupported(e, "rdf:parseType "+parseType)
	case len(e.kids) != 0:
		n, err = nested(e)
	default:
		n, err = leaf(e)
	}
	if err != nil || n == nil {
		return nil, err
	}
	if lang, ok := e.attr(nsmap.NSXML, "lang"); ok {
		q, err := dom.NewSimple(nsmap.NSXML, "lang", lang)
		if err != nil {
			n.Release()
			return nil, err
		}
		if err := n.AddQualifier(q); err != nil {
			n.Release()
			return nil, err
		}
	}
	return n, nil
}

// resource handles rdf:parseType="Resource": a structure, or a value
// with qualifiers when an rdf:value child is present.
func resource(e *elem) (*dom.Node, error) {
	var value *elem
	for _, k := range e.kids {
		if k.is(nsmap.NSRDF, "value") {
			value = k
			break
		}
	}
	if value == nil {
		st, err := dom.NewStructure(e.name.Space, e.name.Local)
		if err != nil {
			return nil, err
		}
		if err := fields(st, e); err != nil {
			st.Release()
			return nil, err
		}
		return st, nil
	}
	n, err := property(value)
	if err != nil || n == nil {
		return nil, err
	}
	if err := n.SetName(e.name.Space, e.name.Local); err != nil {
		n.Release()
		return nil, err
	}
	for _, k := range e.kids {
		if k == value {
			continue
		}
		q, err := property(k)
		if err != nil {
			n.Release()
			return nil, err
		}
		if q == nil {
			continue
		}
		if err := n.AddQualifier(q); err != nil {
			q.Release()
			n.Release()
			return nil, err
		}
	}
	return n, nil
}

// fields adds the property attributes and child elements of e to st.
func fields(st *dom.Node, e *elem) error {
	for _, a := range e.propertyAttrs() {
		c, err := dom.NewSimple(a.Name.Space, a.Name.Local, a.Value)
		if err != nil {
			return err
		}
		if err := st.Append(c); err != nil {
			c.Release()
			return err
		}
	}
	for _, k := range e.kids {
		c, err := property(k)
		if err != nil {
			return err
		}
		if c == nil {
			continue
		}
		if err := st.Append(c); err != nil {
			c.Release()
			return err
		}
	}
	return nil
}

var forms = map[string]dom.ArrayForm{
	"Bag": dom.Unordered,
	"Seq": dom.Ordered,
	"Alt": dom.Alternative,
}

// nested handles a property element with element content: an array or
// a typed rdf:Description.
func nested(e *elem) (*dom.Node, error) {
	if len(e.kids) != 1 {
		return nil, unsupported(e, "property with several children")
	}
	k := e.kids[0]
	if k.is(nsmap.NSRDF, "Description") {
		st, err := dom.NewStructure(e.name.Space, e.name.Local)
		if err != nil {
			return nil, err
		}
		if err := fields(st, k); err != nil {
			st.Release()
			return nil, err
		}
		return st, nil
	}
	form, ok := forms[k.name.Local]
	if k.name.Space != nsmap.NSRDF || !ok {
		return nil, unsupported(k, "property value")
	}
	arr, err := dom.NewArray(e.name.Space, e.name.Local, form, false)
	if err != nil {
		return nil, err
	}
	for _, li := range k.kids {
		if !li.is(nsmap.NSRDF, "li") {
			if err := unsupported(li, "array item"); err != nil {
				arr.Release()
				return nil, err
			}
			continue
		}
		item, err := property(li)
		if err != nil {
			arr.Release()
			return nil, err
		}
		if item == nil {
			continue
		}
		if err := arr.Append(item); err != nil {
			item.Release()
			arr.Release()
			return nil, err
		}
	}
	return arr, nil
}

// leaf handles an element without element content.
func leaf(e *elem) (*dom.Node, error) {
	res, isURI := e.attr(nsmap.NSRDF, "resource")
	if !isURI && len(e.propertyAttrs()) != 0 {
		st, err := dom.NewStructure(e.name.Space, e.name.Local)
		if err != nil {
			return nil, err
		}
		if err := fields(st, e); err != nil {
			st.Release()
			return nil, err
		}
		return st, nil
	}
	value := e.text.String()
	if isURI {
		value = res
	}
	n, err := dom.NewSimple(e.name.Space, e.name.Local, value)
	if err != nil {
		return nil, err
	}
	n.SetURI(isURI)
	if dt, ok := e.attr(nsmap.NSRDF, "datatype"); ok {
		n.SetTypeHint(dt)
	}
	return n, nil
}
