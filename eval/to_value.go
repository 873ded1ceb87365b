package eval

import (
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/mpath"
)

// ToValue converts n into plain values: a simple node becomes its
// string value, an array a []any and a structure a map keyed by
// prefix:name. Qualifiers are dropped.
func ToValue(n *dom.Node, m mpath.Prefixes) (any, error) {
	switch n.Kind() {
	case dom.SimpleKind:
		return n.Value(), nil
	case dom.ArrayKind:
		items := n.Children()
		res := make([]any, len(items))
		for i, c := range items {
			v, err := ToValue(c, m)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	default:
		res := map[string]any{}
		for _, c := range n.Children() {
			p, err := m.Prefix(c.Namespace())
			if err != nil {
				return nil, err
			}
			v, err := ToValue(c, m)
			if err != nil {
				return nil, err
			}
			res[p+":"+c.Name()] = v
		}
		return res, nil
	}
}
