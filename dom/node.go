package dom

import (
	"sync"
	"sync/atomic"

	"github.com/signadot/xmpdom/handle"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Node is one element of a metadata tree. The fields in use depend on
// Kind: simple nodes hold a value, arrays and structures hold children.
// Any node may carry qualifiers.
//
// A Node is safe for concurrent use; each call is isolated but sequences
// of calls are not.
type Node struct {
	handle.Ref

	mu   nodeLock
	kind Kind
	ns   string
	name string

	// parent is a non-owning back reference, set while the node is
	// attached as a child or qualifier.
	parent    *Node
	qualifier bool
	quals     []*Node
	changed   bool

	value string
	hint  string
	uri   bool

	form        ArrayForm
	homogeneous bool

	children []*Node
	// gen counts structural changes to children.
	gen uint64

	doc *Metadata
}

type nodeLock struct {
	sync.RWMutex
	off bool
}

func (l *nodeLock) lock() {
	if !l.off {
		l.Lock()
	}
}
func (l *nodeLock) unlock() {
	if !l.off {
		l.Unlock()
	}
}
func (l *nodeLock) rlock() {
	if !l.off {
		l.RLock()
	}
}
func (l *nodeLock) runlock() {
	if !l.off {
		l.RUnlock()
	}
}

var singleThreaded atomic.Bool

// SetMultiThreaded controls whether nodes created afterwards lock. Nodes
// created while it is off must only be used from one goroutine.
func SetMultiThreaded(v bool) {
	singleThreaded.Store(!v)
}

func IsMultiThreaded() bool {
	return !singleThreaded.Load()
}

func newNode(k Kind, ns, name string) (*Node, error) {
	if ns == "" {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "empty namespace for %q", name)
	}
	if !nsmap.ValidName(name) {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "invalid name %q", name)
	}
	n := &Node{kind: k, ns: ns, name: name}
	n.mu.off = singleThreaded.Load()
	n.OnDestroy(n.destroy)
	return n, nil
}

// NewSimple returns a detached simple node.
func NewSimple(ns, name, value string) (*Node, error) {
	n, err := newNode(SimpleKind, ns, name)
	if err != nil {
		return nil, err
	}
	n.value = value
	return n, nil
}

// NewArray returns a detached array node. Items of a homogeneous array
// must all share one kind, and simple items one type hint.
func NewArray(ns, name string, form ArrayForm, homogeneous bool) (*Node, error) {
	if form < Unordered || form > Alternative {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "array form %d", form)
	}
	n, err := newNode(ArrayKind, ns, name)
	if err != nil {
		return nil, err
	}
	n.form = form
	n.homogeneous = homogeneous
	return n, nil
}

// NewStructure returns a detached structure node.
func NewStructure(ns, name string) (*Node, error) {
	return newNode(StructureKind, ns, name)
}

// destroy runs when the last reference is released: the node detaches
// from its parent, if any, and releases what it owns.
func (n *Node) destroy() {
	n.mu.lock()
	p := n.parent
	n.mu.unlock()
	if p != nil {
		p.detach(n)
	}
	n.mu.lock()
	owned := append(n.children, n.quals...)
	n.children = nil
	n.quals = nil
	n.gen++
	for _, c := range owned {
		c.mu.lock()
		c.parent = nil
		c.qualifier = false
		c.mu.unlock()
	}
	n.mu.unlock()
	for _, c := range owned {
		c.Release()
	}
}

// detach drops c from n's children or qualifiers without releasing it.
func (n *Node) detach(c *Node) {
	n.mu.lock()
	defer n.mu.unlock()
	if i := n.indexOf(c); i >= 0 {
		n.children = append(n.children[:i:i], n.children[i+1:]...)
		n.gen++
	}
	for i, q := range n.quals {
		if q == c {
			n.quals = append(n.quals[:i:i], n.quals[i+1:]...)
			break
		}
	}
	c.mu.lock()
	c.parent = nil
	c.qualifier = false
	c.mu.unlock()
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) IsComposite() bool {
	return n.kind.IsComposite()
}

func (n *Node) Namespace() string {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.ns
}

func (n *Node) Name() string {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.name
}

// Parent returns the composite owning n, or the node n qualifies.
func (n *Node) Parent() *Node {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.parent
}

// IsQualifier reports whether n is attached as a qualifier.
func (n *Node) IsQualifier() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.qualifier
}

// IsArrayItem reports whether n is attached as an array item.
func (n *Node) IsArrayItem() bool {
	n.mu.rlock()
	p, q := n.parent, n.qualifier
	n.mu.runlock()
	return p != nil && !q && p.kind == ArrayKind
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	cur := n
	for {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		cur = p
	}
}

// Document returns the Metadata n belongs to, or nil.
func (n *Node) Document() *Metadata {
	r := n.Root()
	r.mu.rlock()
	defer r.mu.runlock()
	return r.doc
}

// Value returns the value of a simple node.
func (n *Node) Value() string {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.value
}

func (n *Node) SetValue(v string) error {
	if n.kind != SimpleKind {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no value", n.kind)
	}
	n.mu.lock()
	n.value = v
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	return nil
}

// TypeHint returns the optional datatype hint of a simple node.
func (n *Node) TypeHint() string {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.hint
}

// SetTypeHint changes the hint. An item of a homogeneous array with
// siblings may not change its hint.
func (n *Node) SetTypeHint(h string) error {
	if n.kind != SimpleKind {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no type hint", n.kind)
	}
	p := n.Parent()
	if p != nil && p.kind == ArrayKind && !n.IsQualifier() {
		cur := n.TypeHint()
		p.mu.rlock()
		conflict := p.homogeneous && len(p.children) > 1 && cur != h
		p.mu.runlock()
		if conflict {
			return xmperr.Fail(xmperr.DataModel, xmperr.ArrayItemTypeDifferent, "type hint %q in homogeneous array", h)
		}
	}
	n.mu.lock()
	n.hint = h
	n.changed = true
	n.mu.unlock()
	markChanged(p)
	return nil
}

// IsURI reports whether the value of a simple node is a URI reference.
func (n *Node) IsURI() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.uri
}

func (n *Node) SetURI(v bool) error {
	if n.kind != SimpleKind {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no value", n.kind)
	}
	n.mu.lock()
	n.uri = v
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	return nil
}

// Form returns the form of an array node.
func (n *Node) Form() ArrayForm {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.form
}

// Homogeneous reports whether an array node requires uniform items.
func (n *Node) Homogeneous() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.homogeneous
}

// SetName changes the identity of n. Attached structure children and
// qualifiers must stay unique among their siblings; array items take
// their identity from the array and cannot be renamed.
func (n *Node) SetName(ns, name string) error {
	if ns == "" || !nsmap.ValidName(name) {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "invalid name {%s}%s", ns, name)
	}
	n.mu.rlock()
	p, q := n.parent, n.qualifier
	n.mu.runlock()
	if p == nil {
		n.mu.lock()
		n.ns, n.name, n.changed = ns, name, true
		n.mu.unlock()
		return nil
	}
	if p.kind == ArrayKind && !q {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "array items cannot be renamed")
	}
	p.mu.lock()
	defer p.mu.unlock()
	sibs := p.children
	if q {
		sibs = p.quals
	}
	for _, s := range sibs {
		if s != n && s.ns == ns && s.name == name {
			return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyExists, "{%s}%s", ns, name)
		}
	}
	n.mu.lock()
	n.ns, n.name, n.changed = ns, name, true
	n.mu.unlock()
	p.changed = true
	return nil
}

// IsEmpty reports whether a simple node has an empty value or a
// composite has no children.
func (n *Node) IsEmpty() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	if n.kind == SimpleKind {
		return n.value == ""
	}
	return len(n.children) == 0
}

// HasChanged reports whether n or anything below it was modified since
// the last AcknowledgeChanges.
func (n *Node) HasChanged() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.changed
}

// AcknowledgeChanges clears the change flag of n and its descendants.
func (n *Node) AcknowledgeChanges() {
	Walk(n, func(x *Node) bool {
		x.mu.lock()
		x.changed = false
		x.mu.unlock()
		return true
	})
}

func markChanged(n *Node) {
	for n != nil {
		n.mu.lock()
		n.changed = true
		p := n.parent
		n.mu.unlock()
		n = p
	}
}

// Capability identifiers exposed by nodes.
const (
	IDNode          handle.ID = "node"
	IDSimpleNode    handle.ID = "simple-node"
	IDArrayNode     handle.ID = "array-node"
	IDStructureNode handle.ID = "structure-node"
	IDMetadata      handle.ID = "metadata"
)

var (
	baseCaps   = handle.Capabilities{{ID: IDNode, Version: 1}: handle.Self}
	simpleCaps = baseCaps.With(handle.Capability{ID: IDSimpleNode, Version: 1}, handle.Self)
	arrayCaps  = baseCaps.With(handle.Capability{ID: IDArrayNode, Version: 1}, handle.Self)
	structCaps = baseCaps.With(handle.Capability{ID: IDStructureNode, Version: 1}, handle.Self)
)

// Capabilities returns the capability table of n's kind.
func (n *Node) Capabilities() handle.Capabilities {
	switch n.kind {
	case SimpleKind:
		return simpleCaps
	case ArrayKind:
		return arrayCaps
	case StructureKind:
		return structCaps
	}
	return baseCaps
}

func (n *Node) AsInterface(id handle.ID, version int) (any, error) {
	if !n.Alive() {
		return nil, xmperr.Fail(xmperr.General, xmperr.LogicalError, "node released")
	}
	return n.Capabilities().Resolve(n, id, version)
}

var _ handle.Object = (*Node)(nil)
