package plugin

import (
	"fmt"

	"github.com/signadot/xmpdom/alloc"
	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Parser reads a serialized document. Parse returns either the root node
// of a Metadata or a detached node to be wrapped in one.
type Parser interface {
	config.Configurable
	Parse(data []byte) (*dom.Node, error)
}

// Serializer writes md, naming namespaces with the prefixes in m.
// Serializers should look prefixes up with PrefixFor.
type Serializer interface {
	config.Configurable
	Serialize(md *dom.Metadata, m *nsmap.Map) ([]byte, error)
}

type ParserFactory func() Parser
type SerializerFactory func() Serializer

// Configure loads options into c's store.
func Configure(c config.Configurable, opts map[string]any) error {
	return c.Config().Load(opts)
}

// Parse runs p on data and returns the document it describes.
func Parse(p Parser, data []byte) (md *dom.Metadata, err error) {
	defer xmperr.Guard(&err, "parser")
	if p == nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil parser")
	}
	n, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("parsed %d bytes with %T\n", len(data), p)
	}
	return asDocument(n)
}

func asDocument(n *dom.Node) (*dom.Metadata, error) {
	if n == nil {
		return dom.NewMetadata(), nil
	}
	if doc := n.Document(); doc != nil && doc.Node == n {
		return doc, nil
	}
	md := dom.NewMetadata()
	if err := md.Append(n); err != nil {
		md.Release()
		return nil, err
	}
	return md, nil
}

// Action tells ParseInto where parsed nodes go relative to the context
// node.
type Action int

const (
	// AppendChildren appends the parsed top level nodes to the context.
	AppendChildren Action = iota
	// ReplaceChildren clears the context and then appends.
	ReplaceChildren
	// AppendOrReplaceChildren appends, replacing structure children with
	// the same key.
	AppendOrReplaceChildren
	// InsertBefore inserts before the context in its parent array.
	InsertBefore
	// InsertAfter inserts after the context in its parent array.
	InsertAfter
	// Replace puts the parsed nodes in place of the context, which is
	// released.
	Replace
)

func (a Action) String() string {
	switch a {
	case AppendChildren:
		return "append-children"
	case ReplaceChildren:
		return "replace-children"
	case AppendOrReplaceChildren:
		return "append-or-replace-children"
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("<action %d>", int(a))
	}
}

func (a Action) sibling() bool {
	return a == InsertBefore || a == InsertAfter || a == Replace
}

// checkContext validates ctx for action before anything is parsed.
func checkContext(ctx *dom.Node, a Action) error {
	if ctx == nil {
		return xmperr.Fail(xmperr.Parser, xmperr.InvalidContextNode, "nil context node")
	}
	if a < AppendChildren || a > Replace {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "action %s", a)
	}
	if !a.sibling() {
		if !ctx.IsComposite() {
			return xmperr.Fail(xmperr.Parser, xmperr.ContextNodeIsNonComposite, "%s into a %s node", a, ctx.Kind())
		}
		return nil
	}
	p := ctx.Parent()
	if p == nil || ctx.IsQualifier() {
		return xmperr.Fail(xmperr.Parser, xmperr.InvalidContextNode, "%s needs a context node with a parent", a)
	}
	if a != Replace && p.Kind() != dom.ArrayKind {
		return xmperr.Fail(xmperr.Parser, xmperr.ContextNodeParentIsNonArray, "%s in a %s", a, p.Kind())
	}
	return nil
}

// ParseInto parses data with p and places the top level nodes of the
// result relative to ctx according to action. Namespaces of the parsed
// document are merged into the prefix map of ctx's document.
func ParseInto(p Parser, data []byte, ctx *dom.Node, action Action) (err error) {
	if err := checkContext(ctx, action); err != nil {
		return err
	}
	parsed, err := Parse(p, data)
	if err != nil {
		return err
	}
	defer parsed.Release()
	defer xmperr.Guard(&err, "parse into")
	items := parsed.Children()
	if err := precheck(ctx, action, items); err != nil {
		return err
	}
	if doc := ctx.Document(); doc != nil {
		doc.Prefixes().Adopt(parsed.Prefixes())
	}
	// place moves n out of the parsed document and hands it to f,
	// releasing it if f refuses.
	place := func(n *dom.Node, f func(*dom.Node) error) error {
		if err := parsed.Remove(n); err != nil {
			return err
		}
		if err := f(n); err != nil {
			n.Release()
			return err
		}
		return nil
	}
	switch action {
	case ReplaceChildren:
		ctx.Clear(true, false)
		fallthrough
	case AppendChildren:
		for _, n := range items {
			if err := place(n, ctx.Append); err != nil {
				return err
			}
		}
	case AppendOrReplaceChildren:
		for _, n := range items {
			var old *dom.Node
			if ctx.Kind() == dom.StructureKind {
				old = ctx.Lookup(n.Namespace(), n.Name())
			}
			if old == nil {
				err = place(n, ctx.Append)
			} else if err = place(n, func(n *dom.Node) error { return ctx.Replace(n, old) }); err == nil {
				old.Release()
			}
			if err != nil {
				return err
			}
		}
	case InsertBefore:
		parent := ctx.Parent()
		for _, n := range items {
			if err := place(n, func(n *dom.Node) error { return parent.InsertBefore(n, ctx) }); err != nil {
				return err
			}
		}
	case InsertAfter:
		parent, ref := ctx.Parent(), ctx
		for _, n := range items {
			if err := place(n, func(n *dom.Node) error { return parent.InsertAfter(n, ref) }); err != nil {
				return err
			}
			ref = n
		}
	case Replace:
		parent := ctx.Parent()
		if len(items) == 0 {
			if err := parent.Remove(ctx); err != nil {
				return err
			}
			return ctx.Release()
		}
		if err := place(items[0], func(n *dom.Node) error { return parent.Replace(n, ctx) }); err != nil {
			return err
		}
		ctx.Release()
		ref := items[0]
		for _, n := range items[1:] {
			if parent.Kind() == dom.ArrayKind {
				err = place(n, func(n *dom.Node) error { return parent.InsertAfter(n, ref) })
			} else {
				err = place(n, parent.Append)
			}
			if err != nil {
				return err
			}
			ref = n
		}
	}
	return nil
}

// precheck reports structure key collisions and items a homogeneous
// array would refuse before anything is moved.
func precheck(ctx *dom.Node, action Action, items []*dom.Node) error {
	target := ctx
	if action.sibling() {
		target = ctx.Parent()
	}
	if target.Kind() == dom.ArrayKind {
		var except *dom.Node
		if action == Replace {
			except = ctx
		}
		return target.CheckItems(items, action == ReplaceChildren, except)
	}
	if target.Kind() != dom.StructureKind {
		return nil
	}
	seen := map[[2]string]bool{}
	for _, n := range items {
		k := [2]string{n.Namespace(), n.Name()}
		if seen[k] {
			return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyExists, "{%s}%s parsed twice", k[0], k[1])
		}
		seen[k] = true
		existing := target.Lookup(k[0], k[1])
		switch {
		case existing == nil:
		case action == AppendOrReplaceChildren || action == ReplaceChildren:
		case action == Replace && existing == ctx:
		default:
			return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyExists, "{%s}%s", k[0], k[1])
		}
	}
	return nil
}

type serializeOpts struct {
	prefixes *nsmap.Map
	capacity int
}

type SerializeOption func(*serializeOpts)

// WithPrefixes adds caller prefixes which take precedence over those of
// the document and the well known ones.
func WithPrefixes(m *nsmap.Map) SerializeOption {
	return func(o *serializeOpts) { o.prefixes = m }
}

// WithCapacity bounds the size of the output in bytes.
func WithCapacity(n int) SerializeOption {
	return func(o *serializeOpts) { o.capacity = n }
}

// Serialize runs s on md. The working prefix map holds the caller's
// prefixes, then the document's, then the well known ones. A document
// namespace whose prefix the caller uses for another namespace gets a
// generated prefix. The result is copied into a buffer from the installed
// allocator.
func Serialize(s Serializer, md *dom.Metadata, opts ...SerializeOption) (res []byte, err error) {
	defer xmperr.Guard(&err, "serializer")
	if s == nil || md == nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil serializer or document")
	}
	o := &serializeOpts{}
	for _, opt := range opts {
		opt(o)
	}
	m := nsmap.New()
	if o.prefixes != nil {
		m.Merge(o.prefixes)
	}
	m.Adopt(md.Prefixes())
	m.Merge(nsmap.Default())

	out, err := s.Serialize(md, m)
	if err != nil {
		return nil, err
	}
	if debug.Serialize() {
		debug.Logf("serialized %d bytes with %T\n", len(out), s)
	}
	if o.capacity > 0 && len(out) > o.capacity {
		return nil, xmperr.Fail(xmperr.Serializer, xmperr.SizeExceed, "%d bytes exceeds %d", len(out), o.capacity).
			WithParams(fmt.Sprint(len(out)))
	}
	return alloc.Copy(out)
}

// PrefixFor returns the prefix of ns in m. A namespace without one is
// reported as UnRegisteredNameSpace; when the notifier recovers, a
// generated prefix is registered in m and returned.
func PrefixFor(m *nsmap.Map, ns string) (string, error) {
	if m.HasNamespace(ns) {
		return m.Prefix(ns)
	}
	e, ok := xmperr.Raise(xmperr.Serializer, xmperr.UnRegisteredNameSpace, xmperr.SeverityWarning, "%s", ns)
	if !ok {
		return "", e.WithParams(ns)
	}
	return m.Register(ns, "ns")
}
