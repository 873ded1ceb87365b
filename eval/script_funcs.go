package eval

import (
	"github.com/signadot/xmpdom/dom"
)

func WhereAmI() Symbol {
	return Func("whereami", func(s *State, _ ...any) (any, error) {
		return s.path(s.cur)
	}, new(func() string))
}

// GetPath resolves a path from the document root and converts the node
// with ToValue.
func GetPath() Symbol {
	return Func("getpath", func(s *State, params ...any) (any, error) {
		n, err := dom.ResolveString(s.cur.Root(), params[0].(string))
		if err != nil {
			return nil, err
		}
		return ToValue(n, s.m)
	}, new(func(string) any))
}

// ListPath is GetPath for arrays: the converted items.
func ListPath() Symbol {
	return Func("listpath", func(s *State, params ...any) (any, error) {
		n, err := dom.ResolveString(s.cur.Root(), params[0].(string))
		if err != nil {
			return nil, err
		}
		items := n.Children()
		res := make([]any, len(items))
		for i, item := range items {
			if res[i], err = ToValue(item, s.m); err != nil {
				return nil, err
			}
		}
		return res, nil
	}, new(func(string) []any))
}

// Qual is the value of a simple qualifier of the current node, or "".
func Qual() Symbol {
	return Func("qual", func(s *State, params ...any) (any, error) {
		ns, local, err := s.qname(params[0].(string))
		if err != nil {
			return nil, err
		}
		q := s.cur.LookupQualifier(ns, local)
		if q == nil || q.Kind() != dom.SimpleKind {
			return "", nil
		}
		return q.Value(), nil
	}, new(func(string) string))
}

func HasQual() Symbol {
	return Func("hasqual", func(s *State, params ...any) (any, error) {
		ns, local, err := s.qname(params[0].(string))
		if err != nil {
			return nil, err
		}
		return s.cur.LookupQualifier(ns, local) != nil, nil
	}, new(func(string) bool))
}

// Child is the value of a simple field of the current structure, or "".
func Child() Symbol {
	return Func("child", func(s *State, params ...any) (any, error) {
		ns, local, err := s.qname(params[0].(string))
		if err != nil {
			return nil, err
		}
		if s.cur.Kind() != dom.StructureKind {
			return "", nil
		}
		c := s.cur.Lookup(ns, local)
		if c == nil || c.Kind() != dom.SimpleKind {
			return "", nil
		}
		return c.Value(), nil
	}, new(func(string) string))
}
