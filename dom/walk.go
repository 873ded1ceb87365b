package dom

// Walk visits n and everything below it in document order: a node, then
// its qualifiers, then its children. Walk stops as soon as f returns
// false and reports whether it ran to completion.
//
// Each node is read from a snapshot so f may lock the visited node.
func Walk(n *Node, f func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !f(n) {
		return false
	}
	for _, q := range n.Qualifiers() {
		if !Walk(q, f) {
			return false
		}
	}
	for _, c := range n.Children() {
		if !Walk(c, f) {
			return false
		}
	}
	return true
}

// Depth returns the number of ancestors of n.
func Depth(n *Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}
