package rdfxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
)

// Serializer options.
const (
	OmitPacketWrapper = "omitPacketWrapper"
	// UseCompactFormat writes unqualified top level simple properties as
	// attributes of rdf:Description.
	UseCompactFormat = "useCompactFormat"
	Indent           = "indent"
	Newline          = "newline"
	// Padding is the number of bytes of whitespace written before the
	// packet trailer, for in place editing.
	Padding = "padding"
)

const (
	packetHeader  = "<?xpacket begin=\"\uFEFF\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>"
	packetTrailer = "<?xpacket end=\"w\"?>"
)

type Serializer struct {
	cfg *config.Store
}

// NewSerializer returns an RDF/XML serializer with default options.
func NewSerializer() plugin.Serializer {
	return &Serializer{cfg: config.New(
		config.CaseInsensitive(),
		config.Strict(true),
		config.AllowKey(OmitPacketWrapper, config.BoolKind),
		config.AllowKey(UseCompactFormat, config.BoolKind),
		config.AllowKey(Indent, config.StringKind),
		config.AllowKey(Newline, config.StringKind),
		config.AllowKey(Padding, config.IntKind),
		config.Validate(validate),
		config.Defaults(map[string]config.Value{
			OmitPacketWrapper: config.Bool(false),
			UseCompactFormat:  config.Bool(false),
			Indent:            config.String(" "),
			Newline:           config.String("\n"),
			Padding:           config.Int(2048),
		}),
	)}
}

func validate(key string, v config.Value) error {
	switch key {
	case strings.ToLower(Indent):
		if strings.Trim(v.Str(), " \t") != "" {
			return fmt.Errorf("indent %q is not blank", v.Str())
		}
	case strings.ToLower(Newline):
		if s := v.Str(); s != "\n" && s != "\r\n" && s != "\r" {
			return fmt.Errorf("newline %q", s)
		}
	case strings.ToLower(Padding):
		if v.Int() < 0 {
			return fmt.Errorf("negative padding %d", v.Int())
		}
	}
	return nil
}

func (s *Serializer) Config() *config.Store {
	return s.cfg
}

type writer struct {
	buf     bytes.Buffer
	m       *nsmap.Map
	indent  string
	newline string
}

func (w *writer) open(depth int) {
	for range depth {
		w.buf.WriteString(w.indent)
	}
}

func (w *writer) end() {
	w.buf.WriteString(w.newline)
}

func (w *writer) qname(ns, name string) string {
	p, _ := w.m.Prefix(ns)
	return p + ":" + name
}

func escape(s string) string {
	b := &strings.Builder{}
	xml.EscapeText(b, []byte(s))
	return b.String()
}

// Serialize writes md as an XMP packet.
func (s *Serializer) Serialize(md *dom.Metadata, m *nsmap.Map) ([]byte, error) {
	w := &writer{
		m:       m,
		indent:  s.cfg.StringOr(Indent, " "),
		newline: s.cfg.StringOr(Newline, "\n"),
	}
	wrap := !s.cfg.BoolOr(OmitPacketWrapper, false)
	compact := s.cfg.BoolOr(UseCompactFormat, false)

	used := md.Namespaces()
	decls := make([]nsmap.Entry, 0, len(used))
	for _, ns := range used {
		if ns == nsmap.NSXML || ns == nsmap.NSRDF {
			continue
		}
		p, err := plugin.PrefixFor(m, ns)
		if err != nil {
			return nil, err
		}
		decls = append(decls, nsmap.Entry{Prefix: p, Namespace: ns})
	}
	slices.SortFunc(decls, func(a, b nsmap.Entry) int { return strings.Compare(a.Prefix, b.Prefix) })
	for _, ns := range []string{nsmap.NSRDF, nsmap.NSMeta} {
		if _, err := plugin.PrefixFor(m, ns); err != nil {
			return nil, err
		}
	}
	x, rdf := w.qname(nsmap.NSMeta, "xmpmeta"), w.qname(nsmap.NSRDF, "RDF")
	xPrefix, _ := m.Prefix(nsmap.NSMeta)
	rdfPrefix, _ := m.Prefix(nsmap.NSRDF)

	if wrap {
		w.buf.WriteString(packetHeader)
		w.end()
	}
	w.buf.WriteString("<" + x + " xmlns:" + xPrefix + "=\"" + nsmap.NSMeta + "\">")
	w.end()
	w.open(1)
	w.buf.WriteString("<" + rdf + " xmlns:" + rdfPrefix + "=\"" + escape(nsmap.NSRDF) + "\">")
	w.end()

	var attrs, elems []*dom.Node
	for _, c := range md.Children() {
		if compact && attributable(c) {
			attrs = append(attrs, c)
		} else {
			elems = append(elems, c)
		}
	}
	desc := w.qname(nsmap.NSRDF, "Description")
	w.open(2)
	w.buf.WriteString("<" + desc + " " + w.qname(nsmap.NSRDF, "about") + "=\"" + escape(md.AboutURI()) + "\"")
	for _, d := range decls {
		w.end()
		w.open(4)
		w.buf.WriteString("xmlns:" + d.Prefix + "=\"" + escape(d.Namespace) + "\"")
	}
	for _, a := range attrs {
		w.end()
		w.open(4)
		w.buf.WriteString(w.qname(a.Namespace(), a.Name()) + "=\"" + escape(a.Value()) + "\"")
	}
	if len(elems) == 0 {
		w.buf.WriteString("/>")
		w.end()
	} else {
		w.buf.WriteString(">")
		w.end()
		for _, c := range elems {
			w.property(3, c, w.qname(c.Namespace(), c.Name()))
		}
		w.open(2)
		w.buf.WriteString("</" + desc + ">")
		w.end()
	}
	w.open(1)
	w.buf.WriteString("</" + rdf + ">")
	w.end()
	w.buf.WriteString("</" + x + ">")
	w.end()
	if wrap {
		w.pad(int(s.cfg.IntOr(Padding, 0)))
		w.buf.WriteString(packetTrailer)
	}
	return w.buf.Bytes(), nil
}

func attributable(n *dom.Node) bool {
	return n.Kind() == dom.SimpleKind && !n.HasQualifiers() && !n.IsURI() && n.TypeHint() == ""
}

// pad writes n bytes of whitespace in lines of at most 100 bytes.
func (w *writer) pad(n int) {
	line := strings.Repeat(" ", 99) + "\n"
	for n >= len(line) {
		w.buf.WriteString(line)
		n -= len(line)
	}
	if n > 0 {
		w.buf.WriteString(strings.Repeat(" ", n-1) + "\n")
	}
}

// property writes n as the element name. An xml:lang qualifier becomes an
// attribute; any other qualifier moves the value into rdf:value.
func (w *writer) property(depth int, n *dom.Node, name string) {
	var (
		lang   string
		others []*dom.Node
	)
	for _, q := range n.Qualifiers() {
		if q.Namespace() == nsmap.NSXML && q.Name() == "lang" && q.Kind() == dom.SimpleKind {
			lang = " xml:lang=\"" + escape(q.Value()) + "\""
			continue
		}
		others = append(others, q)
	}
	if len(others) == 0 {
		w.body(depth, n, name, lang)
		return
	}
	w.open(depth)
	w.buf.WriteString("<" + name + lang + " " + w.qname(nsmap.NSRDF, "parseType") + "=\"Resource\">")
	w.end()
	w.body(depth+1, n, w.qname(nsmap.NSRDF, "value"), "")
	for _, q := range others {
		w.property(depth+1, q, w.qname(q.Namespace(), q.Name()))
	}
	w.open(depth)
	w.buf.WriteString("</" + name + ">")
	w.end()
}

// body writes n without its qualifiers.
func (w *writer) body(depth int, n *dom.Node, name, attrs string) {
	w.open(depth)
	switch n.Kind() {
	case dom.SimpleKind:
		if h := n.TypeHint(); h != "" {
			attrs += " " + w.qname(nsmap.NSRDF, "datatype") + "=\"" + escape(h) + "\""
		}
		switch {
		case n.IsURI():
			w.buf.WriteString("<" + name + attrs + " " + w.qname(nsmap.NSRDF, "resource") + "=\"" + escape(n.Value()) + "\"/>")
		case n.Value() == "":
			w.buf.WriteString("<" + name + attrs + "/>")
		default:
			w.buf.WriteString("<" + name + attrs + ">" + escape(n.Value()) + "</" + name + ">")
		}
		w.end()
	case dom.StructureKind:
		pt := " " + w.qname(nsmap.NSRDF, "parseType") + "=\"Resource\""
		kids := n.Children()
		if len(kids) == 0 {
			w.buf.WriteString("<" + name + attrs + pt + "/>")
			w.end()
			return
		}
		w.buf.WriteString("<" + name + attrs + pt + ">")
		w.end()
		for _, c := range kids {
			w.property(depth+1, c, w.qname(c.Namespace(), c.Name()))
		}
		w.open(depth)
		w.buf.WriteString("</" + name + ">")
		w.end()
	case dom.ArrayKind:
		form := w.qname(nsmap.NSRDF, formNames[n.Form()])
		w.buf.WriteString("<" + name + attrs + ">")
		w.end()
		w.open(depth + 1)
		items := n.Children()
		if len(items) == 0 {
			w.buf.WriteString("<" + form + "/>")
			w.end()
		} else {
			w.buf.WriteString("<" + form + ">")
			w.end()
			li := w.qname(nsmap.NSRDF, "li")
			for _, c := range items {
				w.property(depth+2, c, li)
			}
			w.open(depth + 1)
			w.buf.WriteString("</" + form + ">")
			w.end()
		}
		w.open(depth)
		w.buf.WriteString("</" + name + ">")
		w.end()
	}
}

var formNames = map[dom.ArrayForm]string{
	dom.Unordered:   "Bag",
	dom.Ordered:     "Seq",
	dom.Alternative: "Alt",
}
