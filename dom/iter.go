package dom

import "github.com/signadot/xmpdom/xmperr"

// Iterator walks the children of a composite in order.
//
//	it, err := n.Iterate()
//	...
//	for it.Next() {
//		c, _ := it.Node()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// An iterator is bound to the structure of its composite at creation or
// the last Reset. Once children are added, removed or replaced, the
// iterator is invalidated: Next returns false and Err and Node report
// BadIterPosition until Reset. Changing the value of a child does not
// invalidate.
type Iterator struct {
	n   *Node
	gen uint64
	pos int
	err error
}

// Iterate returns an iterator positioned before the first child of n.
func (n *Node) Iterate() (*Iterator, error) {
	if !n.kind.IsComposite() {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "%s node has no children", n.kind)
	}
	it := &Iterator{n: n}
	it.Reset()
	return it, nil
}

// Reset positions it before the first child and rebinds it to the current
// structure of the composite.
func (it *Iterator) Reset() {
	it.n.mu.rlock()
	it.gen = it.n.gen
	it.n.mu.runlock()
	it.pos = 0
	it.err = nil
}

func (it *Iterator) valid() bool {
	if it.err != nil {
		return false
	}
	if it.n.gen != it.gen {
		it.err = xmperr.Fail(xmperr.DataModel, xmperr.BadIterPosition, "composite changed during iteration")
		return false
	}
	return true
}

// Next advances to the next child and reports whether there is one.
func (it *Iterator) Next() bool {
	it.n.mu.rlock()
	defer it.n.mu.runlock()
	if !it.valid() {
		return false
	}
	if it.pos > len(it.n.children) {
		return false
	}
	it.pos++
	return it.pos <= len(it.n.children)
}

// HasNext reports whether Next would return true.
func (it *Iterator) HasNext() bool {
	it.n.mu.rlock()
	defer it.n.mu.runlock()
	return it.valid() && it.pos < len(it.n.children)
}

// Node returns the child at the current position.
func (it *Iterator) Node() (*Node, error) {
	it.n.mu.rlock()
	defer it.n.mu.runlock()
	if !it.valid() {
		return nil, it.err
	}
	if len(it.n.children) == 0 {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.EmptyIterator, "no children")
	}
	if it.pos < 1 || it.pos > len(it.n.children) {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.BadIterPosition, "position %d of %d", it.pos, len(it.n.children))
	}
	return it.n.children[it.pos-1], nil
}

// Err returns the invalidation error, if any.
func (it *Iterator) Err() error {
	it.n.mu.rlock()
	defer it.n.mu.runlock()
	it.valid()
	return it.err
}
