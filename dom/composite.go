package dom

import (
	"slices"

	"github.com/signadot/xmpdom/xmperr"
)

// Len returns the number of children of a composite, 0 for simple nodes.
func (n *Node) Len() int {
	n.mu.rlock()
	defer n.mu.runlock()
	return len(n.children)
}

// Children returns a snapshot of the children.
func (n *Node) Children() []*Node {
	n.mu.rlock()
	defer n.mu.runlock()
	return slices.Clone(n.children)
}

// Lookup returns the structure child (ns, name) or nil.
func (n *Node) Lookup(ns, name string) *Node {
	n.mu.rlock()
	defer n.mu.runlock()
	return n.lookup(ns, name)
}

func (n *Node) lookup(ns, name string) *Node {
	for _, c := range n.children {
		if c.ns == ns && c.name == name {
			return c
		}
	}
	return nil
}

// Child returns the structure child (ns, name).
func (n *Node) Child(ns, name string) (*Node, error) {
	if n.kind != StructureKind {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no named children", n.kind)
	}
	c := n.Lookup(ns, name)
	if c == nil {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "{%s}%s", ns, name)
	}
	return c, nil
}

// ChildAt returns the 1-based child i of a composite.
func (n *Node) ChildAt(i int) (*Node, error) {
	if !n.kind.IsComposite() {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	n.mu.rlock()
	defer n.mu.runlock()
	if i < 1 || i > len(n.children) {
		return nil, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "index %d of %d", i, len(n.children))
	}
	return n.children[i-1], nil
}

func (n *Node) indexOf(c *Node) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

// Append adds child as the last child of n, taking over the caller's
// reference.
func (n *Node) Append(child *Node) error {
	return n.insert(child, func() (int, error) { return len(n.children), nil })
}

// InsertBefore adds child just before ref, which must be a child of n.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil reference node")
	}
	return n.insert(child, func() (int, error) {
		i := n.indexOf(ref)
		if i < 0 {
			return 0, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "reference node is not a child")
		}
		return i, nil
	})
}

// InsertAfter adds child just after ref, which must be a child of n.
func (n *Node) InsertAfter(child, ref *Node) error {
	if ref == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil reference node")
	}
	return n.insert(child, func() (int, error) {
		i := n.indexOf(ref)
		if i < 0 {
			return 0, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "reference node is not a child")
		}
		return i + 1, nil
	})
}

// InsertAt adds child to an array at 1-based position i; i == Len()+1
// appends.
func (n *Node) InsertAt(i int, child *Node) error {
	if n.kind != ArrayKind {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node is not an array", n.kind)
	}
	return n.insert(child, func() (int, error) {
		if i < 1 || i > len(n.children)+1 {
			return 0, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "index %d of %d", i, len(n.children))
		}
		return i - 1, nil
	})
}

// claim marks child as owned by owner so no concurrent attach can take
// it. It returns a snapshot of the fields checks need.
func claim(owner, child *Node, asQualifier bool) (childInfo, error) {
	if child == nil {
		return childInfo{}, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil node")
	}
	if child == owner {
		return childInfo{}, xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyAChild, "node cannot own itself")
	}
	child.mu.lock()
	if child.parent != nil {
		child.mu.unlock()
		return childInfo{}, xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyAChild, "{%s}%s already has a parent", child.ns, child.name)
	}
	if child.doc != nil {
		child.mu.unlock()
		return childInfo{}, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "metadata cannot be attached")
	}
	if !child.Alive() {
		child.mu.unlock()
		return childInfo{}, xmperr.Fail(xmperr.General, xmperr.LogicalError, "node released")
	}
	child.parent = owner
	child.qualifier = asQualifier
	info := childInfo{kind: child.kind, ns: child.ns, name: child.name, hint: child.hint}
	child.mu.unlock()
	// a claimed root that is also an ancestor of owner would form a cycle.
	for a := owner.Parent(); a != nil; a = a.Parent() {
		if a == child {
			unclaim(child)
			return childInfo{}, xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyAChild, "node is an ancestor of its new parent")
		}
	}
	return info, nil
}

func unclaim(child *Node) {
	child.mu.lock()
	child.parent = nil
	child.qualifier = false
	child.mu.unlock()
}

type childInfo struct {
	kind     Kind
	ns, name string
	hint     string
}

func (n *Node) insert(child *Node, pos func() (int, error)) error {
	if !n.kind.IsComposite() {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	if err := n.checkNamespaces(child, n.kind == ArrayKind); err != nil {
		return err
	}
	info, err := claim(n, child, false)
	if err != nil {
		return err
	}
	n.mu.lock()
	i, err := pos()
	if err == nil {
		err = n.admit(info, nil)
	}
	if err != nil {
		n.mu.unlock()
		unclaim(child)
		return err
	}
	if n.kind == ArrayKind {
		child.mu.lock()
		child.ns, child.name = n.ns, n.name
		child.mu.unlock()
	}
	n.children = slices.Insert(n.children, i, child)
	n.gen++
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	n.registerNamespaces(child)
	return nil
}

// admit checks that a child described by info may join n's children,
// ignoring except. n must be locked.
func (n *Node) admit(info childInfo, except *Node) error {
	switch n.kind {
	case StructureKind:
		if c := n.lookup(info.ns, info.name); c != nil && c != except {
			return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyExists, "{%s}%s", info.ns, info.name)
		}
	case ArrayKind:
		if !n.homogeneous {
			return nil
		}
		for _, c := range n.children {
			if c == except {
				continue
			}
			c.mu.rlock()
			kind, hint := c.kind, c.hint
			c.mu.runlock()
			if kind != info.kind || hint != info.hint {
				return xmperr.Fail(xmperr.DataModel, xmperr.ArrayItemTypeDifferent,
					"%s item %q in array of %s %q", info.kind, info.hint, kind, hint)
			}
			break
		}
	}
	return nil
}

// Remove detaches child from n and hands its reference to the caller.
func (n *Node) Remove(child *Node) error {
	if child == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil node")
	}
	if !n.kind.IsComposite() {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	n.mu.lock()
	i := n.indexOf(child)
	if i < 0 {
		n.mu.unlock()
		return xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "node is not a child")
	}
	n.removeAt(i)
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	return nil
}

// removeAt detaches child i. n must be locked.
func (n *Node) removeAt(i int) *Node {
	c := n.children[i]
	c.mu.lock()
	c.parent = nil
	c.mu.unlock()
	n.children = slices.Delete(n.children, i, i+1)
	n.gen++
	n.changed = true
	return c
}

// RemoveAt detaches and returns the 1-based child i.
func (n *Node) RemoveAt(i int) (*Node, error) {
	if !n.kind.IsComposite() {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	n.mu.lock()
	if i < 1 || i > len(n.children) {
		l := len(n.children)
		n.mu.unlock()
		return nil, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "index %d of %d", i, l)
	}
	c := n.removeAt(i - 1)
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	return c, nil
}

// RemoveNamed detaches and returns the structure child (ns, name).
func (n *Node) RemoveNamed(ns, name string) (*Node, error) {
	if n.kind != StructureKind {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no named children", n.kind)
	}
	n.mu.lock()
	c := n.lookup(ns, name)
	if c == nil {
		n.mu.unlock()
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "{%s}%s", ns, name)
	}
	n.removeAt(n.indexOf(c))
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	return c, nil
}

// Replace puts child in the place of old and hands old's reference to
// the caller.
func (n *Node) Replace(child, old *Node) error {
	if old == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil node")
	}
	_, err := n.replace(child, func() (int, error) {
		i := n.indexOf(old)
		if i < 0 {
			return 0, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "node is not a child")
		}
		return i, nil
	})
	return err
}

// ReplaceAt puts child at the 1-based position i and returns the node it
// replaced.
func (n *Node) ReplaceAt(i int, child *Node) (*Node, error) {
	return n.replace(child, func() (int, error) {
		if i < 1 || i > len(n.children) {
			return 0, xmperr.Fail(xmperr.General, xmperr.IndexOutOfBounds, "index %d of %d", i, len(n.children))
		}
		return i - 1, nil
	})
}

func (n *Node) replace(child *Node, pos func() (int, error)) (*Node, error) {
	if !n.kind.IsComposite() {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	if err := n.checkNamespaces(child, n.kind == ArrayKind); err != nil {
		return nil, err
	}
	info, err := claim(n, child, false)
	if err != nil {
		return nil, err
	}
	n.mu.lock()
	i, err := pos()
	if err == nil {
		err = n.admit(info, n.children[i])
	}
	if err != nil {
		n.mu.unlock()
		unclaim(child)
		return nil, err
	}
	old := n.children[i]
	old.mu.lock()
	old.parent = nil
	old.mu.unlock()
	if n.kind == ArrayKind {
		child.mu.lock()
		child.ns, child.name = n.ns, n.name
		child.mu.unlock()
	}
	n.children[i] = child
	n.gen++
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	n.registerNamespaces(child)
	return old, nil
}

// Clear empties n. With contents, children are released and a simple
// value is reset; with qualifiers, qualifiers are released.
func (n *Node) Clear(contents, qualifiers bool) {
	n.mu.lock()
	var drop []*Node
	if contents {
		drop = append(drop, n.children...)
		if len(n.children) != 0 {
			n.gen++
		}
		n.children = nil
		n.value = ""
	}
	if qualifiers {
		drop = append(drop, n.quals...)
		n.quals = nil
	}
	for _, c := range drop {
		c.mu.lock()
		c.parent = nil
		c.qualifier = false
		c.mu.unlock()
	}
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	for _, c := range drop {
		c.Release()
	}
}

// registerNamespaces adds the namespaces of the subtree at c to the prefix
// map of the enclosing document, when it auto registers.
func (n *Node) registerNamespaces(c *Node) {
	doc := n.Document()
	if doc == nil || !doc.Feature(FeatureAutoRegisterNamespaces) {
		return
	}
	doc.registerSubtree(c)
}

// checkNamespaces reports a namespace used in the subtree at c which has
// no prefix in the enclosing document, when that document does not auto
// register. The name of an array item is its array's, so with item the
// namespace of c itself is not checked.
func (n *Node) checkNamespaces(c *Node, item bool) error {
	doc := n.Document()
	if doc == nil || doc.Feature(FeatureAutoRegisterNamespaces) {
		return nil
	}
	missing := ""
	Walk(c, func(x *Node) bool {
		if x == c && item {
			return true
		}
		if ns := x.Namespace(); !doc.prefixes.HasNamespace(ns) {
			missing = ns
			return false
		}
		return true
	})
	if missing != "" {
		return xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "namespace %q", missing)
	}
	return nil
}

// CheckItems reports whether every node of items could be added to the
// array n. With replaceAll the current items are disregarded; otherwise
// every current item except except is taken into account. Nothing is
// changed.
func (n *Node) CheckItems(items []*Node, replaceAll bool, except *Node) error {
	if n.kind != ArrayKind || !n.homogeneous {
		return nil
	}
	var (
		kind Kind
		hint string
		have bool
	)
	if !replaceAll {
		n.mu.rlock()
		for _, c := range n.children {
			if c == except {
				continue
			}
			c.mu.rlock()
			kind, hint, have = c.kind, c.hint, true
			c.mu.runlock()
			break
		}
		n.mu.runlock()
	}
	for _, it := range items {
		it.mu.rlock()
		k, h := it.kind, it.hint
		it.mu.runlock()
		if !have {
			kind, hint, have = k, h, true
			continue
		}
		if k != kind || h != hint {
			return xmperr.Fail(xmperr.DataModel, xmperr.ArrayItemTypeDifferent,
				"%s item %q in array of %s %q", k, h, kind, hint)
		}
	}
	return nil
}
