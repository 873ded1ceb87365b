package dom

// Clone returns a detached deep copy of n with a fresh reference.
func (n *Node) Clone() *Node {
	return n.CloneWith(false, false)
}

// CloneWith is Clone with pruning. With ignoreEmpty, nodes which are empty
// and carry no qualifiers are left out; with ignoreOnlyQualifiers, empty
// nodes are left out even when qualified. A composite whose children are
// all pruned is itself empty. CloneWith returns nil when n is pruned.
func (n *Node) CloneWith(ignoreEmpty, ignoreOnlyQualifiers bool) *Node {
	n.mu.rlock()
	res := &Node{
		kind:        n.kind,
		ns:          n.ns,
		name:        n.name,
		value:       n.value,
		hint:        n.hint,
		uri:         n.uri,
		form:        n.form,
		homogeneous: n.homogeneous,
	}
	quals := append([]*Node(nil), n.quals...)
	children := append([]*Node(nil), n.children...)
	n.mu.runlock()
	res.mu.off = singleThreaded.Load()
	res.OnDestroy(res.destroy)

	for _, c := range children {
		cc := c.CloneWith(ignoreEmpty, ignoreOnlyQualifiers)
		if cc == nil {
			continue
		}
		cc.parent = res
		res.children = append(res.children, cc)
	}
	if pruned(res, len(quals) != 0, ignoreEmpty, ignoreOnlyQualifiers) {
		res.Release()
		return nil
	}
	for _, q := range quals {
		qc := q.Clone()
		qc.parent = res
		qc.qualifier = true
		res.quals = append(res.quals, qc)
	}
	return res
}

func pruned(n *Node, qualified, ignoreEmpty, ignoreOnlyQualifiers bool) bool {
	if !n.IsEmpty() {
		return false
	}
	if qualified {
		return ignoreOnlyQualifiers
	}
	return ignoreEmpty || ignoreOnlyQualifiers
}
