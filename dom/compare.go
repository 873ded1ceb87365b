package dom

// Equal reports whether the trees at a and b hold the same data.
//
// Kinds, names, simple values, type hints, URI flags and array forms must
// match. Structure children and qualifiers are compared by key, array
// items in order. Change flags and the homogeneous constraint are not
// data and are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.kind != b.kind || a.Namespace() != b.Namespace() || a.Name() != b.Name() {
		return false
	}
	switch a.kind {
	case SimpleKind:
		if a.Value() != b.Value() || a.TypeHint() != b.TypeHint() || a.IsURI() != b.IsURI() {
			return false
		}
	case ArrayKind:
		if a.Form() != b.Form() {
			return false
		}
		ac, bc := a.Children(), b.Children()
		if len(ac) != len(bc) {
			return false
		}
		for i := range ac {
			if !Equal(ac[i], bc[i]) {
				return false
			}
		}
	case StructureKind:
		if !equalKeyed(a.Children(), b) {
			return false
		}
	}
	return equalQualifiers(a.Qualifiers(), b)
}

func equalKeyed(as []*Node, b *Node) bool {
	if len(as) != b.Len() {
		return false
	}
	for _, x := range as {
		if !Equal(x, b.Lookup(x.Namespace(), x.Name())) {
			return false
		}
	}
	return true
}

func equalQualifiers(as []*Node, b *Node) bool {
	bs := b.Qualifiers()
	if len(as) != len(bs) {
		return false
	}
	for _, x := range as {
		if !Equal(x, b.LookupQualifier(x.Namespace(), x.Name())) {
			return false
		}
	}
	return true
}
