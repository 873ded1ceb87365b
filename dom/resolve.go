package dom

import (
	"strconv"

	"github.com/signadot/xmpdom/mpath"
	"github.com/signadot/xmpdom/xmperr"
)

// Resolve follows p from n. The empty path resolves to n itself.
//
// A property segment needs a structure, an index or selector segment an
// array and a qualifier segment a node which is neither the document
// root nor itself a qualifier.
func Resolve(n *Node, p *mpath.Path) (*Node, error) {
	if n == nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil node")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cur := n
	for i, s := range p.Segments() {
		next, err := step(cur, s)
		if err != nil {
			if e, ok := xmperr.As(err); ok && e.Location == "" {
				e.At(segLoc(i))
			}
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// ResolveString parses s against the prefixes of n's document and
// resolves the result from n.
func ResolveString(n *Node, s string) (*Node, error) {
	doc := n.Document()
	if doc == nil {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "node is not in a document")
	}
	p, err := mpath.Parse(s, doc.Prefixes())
	if err != nil {
		return nil, err
	}
	return Resolve(n, p)
}

// KindAt returns the kind of the node p leads to from n.
func KindAt(n *Node, p *mpath.Path) (Kind, error) {
	t, err := Resolve(n, p)
	if err != nil {
		return NoKind, err
	}
	return t.Kind(), nil
}

// RemovePath detaches the node p leads to from n and hands it to the
// caller. Qualifiers are removed from their owner's qualifier list. The
// empty path names n itself and is rejected.
func RemovePath(n *Node, p *mpath.Path) (*Node, error) {
	if p.Len() == 0 {
		return nil, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "empty path")
	}
	t, err := Resolve(n, p)
	if err != nil {
		return nil, err
	}
	parent := t.Parent()
	if parent == nil {
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "node is detached")
	}
	if t.IsQualifier() {
		return parent.RemoveQualifier(t.Namespace(), t.Name())
	}
	if err := parent.Remove(t); err != nil {
		return nil, err
	}
	return t, nil
}

func segLoc(i int) string {
	return "segment " + strconv.Itoa(i+1)
}

func step(cur *Node, s mpath.Segment) (*Node, error) {
	switch s.Kind {
	case mpath.PropertySegment:
		switch cur.kind {
		case SimpleKind:
			return nil, xmperr.Fail(xmperr.Parser, xmperr.ContextNodeIsNonComposite, "property %s of a simple node", s)
		case ArrayKind:
			return nil, xmperr.Fail(xmperr.DataModel, xmperr.DifferentNodeTypePresent, "property %s of an array", s)
		}
		c := cur.Lookup(s.Namespace, s.Name)
		if c == nil {
			return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "%s", s)
		}
		return c, nil
	case mpath.ArrayIndexSegment:
		if cur.kind != ArrayKind {
			return nil, xmperr.Fail(xmperr.Parser, xmperr.ContextNodeParentIsNonArray, "index %d of a %s node", s.Index, cur.kind)
		}
		return cur.ChildAt(s.Index)
	case mpath.QualifierSegment:
		if cur.doc != nil || cur.IsQualifier() {
			return nil, xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "qualifier %s of a node which cannot be qualified", s)
		}
		q := cur.LookupQualifier(s.Namespace, s.Name)
		if q == nil {
			return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "qualifier %s", s)
		}
		return q, nil
	case mpath.QualifierSelectorSegment:
		if cur.kind != ArrayKind {
			return nil, xmperr.Fail(xmperr.Parser, xmperr.ContextNodeParentIsNonArray, "selector %s of a %s node", s, cur.kind)
		}
		for _, c := range cur.Children() {
			q := c.LookupQualifier(s.Namespace, s.Name)
			if q != nil && q.kind == SimpleKind && q.Value() == s.Value {
				return c, nil
			}
		}
		return nil, xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "no item matches %s", s)
	}
	return nil, xmperr.Fail(xmperr.DataModel, xmperr.InvalidPathSegment, "segment kind %s", s.Kind)
}

// Path returns the path leading from the root of n's tree to n.
func (n *Node) Path() *mpath.Path {
	var segs []mpath.Segment
	cur := n
	for {
		p := cur.Parent()
		if p == nil {
			break
		}
		switch {
		case cur.IsQualifier():
			segs = append(segs, mpath.Qualifier(cur.Namespace(), cur.Name()))
		case p.kind == ArrayKind:
			p.mu.rlock()
			i := p.indexOf(cur)
			p.mu.runlock()
			segs = append(segs, mpath.Index(i+1))
		default:
			segs = append(segs, mpath.Property(cur.Namespace(), cur.Name()))
		}
		cur = p
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return mpath.New(segs...)
}
