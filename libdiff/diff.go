package libdiff

import (
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/mpath"
)

// DiffFunc diffs the nodes at path p of two trees.
type DiffFunc func(p *mpath.Path, from, to *dom.Node) []Change

// Diff returns the changes turning from into to in document order:
// qualifiers before children, old keys before new ones. Equal trees
// yield no changes.
func Diff(from, to *dom.Node) []Change {
	return diffNode(mpath.New(), from, to)
}

func child(p *mpath.Path, s mpath.Segment) *mpath.Path {
	return p.Clone().Append(s)
}

func diffNode(p *mpath.Path, from, to *dom.Node) []Change {
	switch {
	case from == nil && to == nil:
		return nil
	case from == nil:
		return []Change{{Op: Insert, Path: p, To: to}}
	case to == nil:
		return []Change{{Op: Delete, Path: p, From: from}}
	case from.Kind() != to.Kind():
		return []Change{{Op: Replace, Path: p, From: from, To: to}}
	case !from.IsArrayItem() && (from.Namespace() != to.Namespace() || from.Name() != to.Name()):
		return []Change{{Op: Replace, Path: p, From: from, To: to}}
	}
	res := diffKeyed(p, from.Qualifiers(), to.Qualifiers(), to.LookupQualifier, mpath.Qualifier)
	switch from.Kind() {
	case dom.SimpleKind:
		if from.IsURI() != to.IsURI() || from.TypeHint() != to.TypeHint() {
			res = append(res, Change{Op: Retag, Path: p, From: from, To: to})
		}
		if from.Value() != to.Value() {
			res = append(res, diffValue(p, from, to))
		}
	case dom.ArrayKind:
		if from.Form() != to.Form() {
			res = append(res, Change{Op: Retag, Path: p, From: from, To: to})
		}
		res = append(res, DiffArrayByIndex(p, from, to, diffNode)...)
	case dom.StructureKind:
		res = append(res, diffKeyed(p, from.Children(), to.Children(), to.Lookup, mpath.Property)...)
	}
	return res
}

func diffValue(p *mpath.Path, from, to *dom.Node) Change {
	text, small := DiffString(from.Value(), to.Value())
	if !small {
		return Change{Op: Replace, Path: p, From: from, To: to}
	}
	return Change{Op: Edit, Path: p, From: from, To: to, Text: text}
}

// diffKeyed matches children or qualifiers by (namespace, name).
func diffKeyed(p *mpath.Path, from, to []*dom.Node, lookup func(ns, name string) *dom.Node, seg func(ns, name string) mpath.Segment) []Change {
	var res []Change
	seen := make(map[[2]string]bool, len(from))
	for _, f := range from {
		seen[[2]string{f.Namespace(), f.Name()}] = true
		res = append(res, diffNode(child(p, seg(f.Namespace(), f.Name())), f, lookup(f.Namespace(), f.Name()))...)
	}
	for _, t := range to {
		if seen[[2]string{t.Namespace(), t.Name()}] {
			continue
		}
		res = append(res, Change{Op: Insert, Path: child(p, seg(t.Namespace(), t.Name())), To: t})
	}
	return res
}
