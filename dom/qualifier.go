package dom

import (
	"slices"

	"github.com/signadot/xmpdom/xmperr"
)

// AddQualifier attaches q to n. Qualifiers are unique by (ns, name).
func (n *Node) AddQualifier(q *Node) error {
	if n.doc != nil {
		return xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "metadata root takes no qualifiers")
	}
	if err := n.checkNamespaces(q, false); err != nil {
		return err
	}
	info, err := claim(n, q, true)
	if err != nil {
		return err
	}
	n.mu.lock()
	for _, x := range n.quals {
		if x.ns == info.ns && x.name == info.name {
			n.mu.unlock()
			unclaim(q)
			return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyExists, "qualifier {%s}%s", info.ns, info.name)
		}
	}
	n.quals = append(n.quals, q)
	n.changed = true
	p := n.parent
	n.mu.unlock()
	markChanged(p)
	n.registerNamespaces(q)
	return nil
}

// Qualifier returns the qualifier (ns, name) of n.
func (n *Node) Qualifier(ns, name string) (*Node, error) {
	q := n.LookupQualifier(ns, name)
	if q == nil {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "qualifier {%s}%s", ns, name)
	}
	return q, nil
}

// LookupQualifier returns the qualifier (ns, name) or nil.
func (n *Node) LookupQualifier(ns, name string) *Node {
	n.mu.rlock()
	defer n.mu.runlock()
	for _, q := range n.quals {
		if q.ns == ns && q.name == name {
			return q
		}
	}
	return nil
}

// Qualifiers returns a snapshot of the qualifiers of n in order.
func (n *Node) Qualifiers() []*Node {
	n.mu.rlock()
	defer n.mu.runlock()
	return slices.Clone(n.quals)
}

func (n *Node) HasQualifiers() bool {
	n.mu.rlock()
	defer n.mu.runlock()
	return len(n.quals) != 0
}

// RemoveQualifier detaches and returns the qualifier (ns, name).
func (n *Node) RemoveQualifier(ns, name string) (*Node, error) {
	n.mu.lock()
	for i, q := range n.quals {
		if q.ns != ns || q.name != name {
			continue
		}
		q.mu.lock()
		q.parent = nil
		q.qualifier = false
		q.mu.unlock()
		n.quals = slices.Delete(n.quals, i, i+1)
		n.changed = true
		p := n.parent
		n.mu.unlock()
		markChanged(p)
		return q, nil
	}
	n.mu.unlock()
	return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "qualifier {%s}%s", ns, name)
}
