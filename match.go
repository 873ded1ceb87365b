package xmpdom

import (
	"github.com/signadot/xmpdom/dom"
)

type MatchConfig struct {
	Qualifiers bool
	Hints      bool
}

type MatchOpt func(*MatchConfig)

// MatchQualifiers makes qualifiers of the pattern part of the match. On
// by default.
func MatchQualifiers(v bool) MatchOpt {
	return func(c *MatchConfig) { c.Qualifiers = v }
}

// MatchHints makes the type hint and URI flag of simple nodes part of
// the match.
func MatchHints(v bool) MatchOpt {
	return func(c *MatchConfig) { c.Hints = v }
}

// Match reports whether doc contains pattern: simple values are equal,
// every field of a pattern structure is present and matches, ordered and
// alternative arrays match item by item, and each item of an unordered
// pattern array matches a distinct item of doc. Names of the two roots
// are not compared.
func Match(doc, pattern *dom.Node, opts ...MatchOpt) bool {
	cfg := &MatchConfig{Qualifiers: true}
	for _, o := range opts {
		o(cfg)
	}
	return cfg.match(doc, pattern)
}

func (c *MatchConfig) match(doc, pattern *dom.Node) bool {
	if doc == nil || pattern == nil {
		return doc == pattern
	}
	if doc.Kind() != pattern.Kind() {
		return false
	}
	if c.Qualifiers {
		for _, q := range pattern.Qualifiers() {
			if !c.match(doc.LookupQualifier(q.Namespace(), q.Name()), q) {
				return false
			}
		}
	}
	switch pattern.Kind() {
	case dom.SimpleKind:
		if c.Hints && (doc.IsURI() != pattern.IsURI() || doc.TypeHint() != pattern.TypeHint()) {
			return false
		}
		return doc.Value() == pattern.Value()
	case dom.StructureKind:
		return c.matchFields(doc, pattern)
	default:
		if pattern.Form() == dom.Unordered {
			_, ok := c.pairItems(doc, pattern)
			return ok
		}
		return c.matchItems(doc, pattern)
	}
}

func (c *MatchConfig) matchFields(doc, pattern *dom.Node) bool {
	for _, f := range pattern.Children() {
		if !c.match(doc.Lookup(f.Namespace(), f.Name()), f) {
			return false
		}
	}
	return true
}

func (c *MatchConfig) matchItems(doc, pattern *dom.Node) bool {
	ds, ps := doc.Children(), pattern.Children()
	if len(ds) != len(ps) {
		return false
	}
	for i := range ds {
		if !c.match(ds[i], ps[i]) {
			return false
		}
	}
	return true
}

// pairItems gives each pattern item the first unused matching doc item.
func (c *MatchConfig) pairItems(doc, pattern *dom.Node) ([]int, bool) {
	ds := doc.Children()
	used := make([]bool, len(ds))
	var res []int
	for _, p := range pattern.Children() {
		found := -1
		for i, d := range ds {
			if !used[i] && c.match(d, p) {
				found = i
				break
			}
		}
		if found < 0 {
			return res, false
		}
		used[found] = true
		res = append(res, found)
	}
	return res, true
}

// Trim returns a copy of doc holding only what pattern names: the fields
// of structures present in the pattern, and for arrays the items matching
// a pattern item, in pattern order. Simple nodes and composites of another
// kind than their pattern are copied whole, qualifiers included.
func Trim(pattern, doc *dom.Node) (*dom.Node, error) {
	if doc == nil {
		return nil, nil
	}
	if pattern == nil || pattern.Kind() != doc.Kind() {
		return doc.Clone(), nil
	}
	var res *dom.Node
	var err error
	switch pattern.Kind() {
	case dom.StructureKind:
		res, err = dom.NewStructure(doc.Namespace(), doc.Name())
	case dom.ArrayKind:
		res, err = dom.NewArray(doc.Namespace(), doc.Name(), doc.Form(), doc.Homogeneous())
	default:
		return doc.Clone(), nil
	}
	if err != nil {
		return doc.Clone(), nil
	}
	if err := trimInto(res, pattern, doc); err != nil {
		res.Release()
		return nil, err
	}
	return res, nil
}

func trimInto(res, pattern, doc *dom.Node) error {
	if err := copyQualifiers(res, doc); err != nil {
		return err
	}
	if pattern.Kind() == dom.StructureKind {
		for _, f := range doc.Children() {
			p := pattern.Lookup(f.Namespace(), f.Name())
			if p == nil {
				continue
			}
			if err := appendTrimmed(res, p, f); err != nil {
				return err
			}
		}
		return nil
	}
	c := &MatchConfig{Qualifiers: true}
	ds := doc.Children()
	used := make([]bool, len(ds))
	for _, p := range pattern.Children() {
		for i, d := range ds {
			if used[i] || !c.match(d, p) {
				continue
			}
			used[i] = true
			if err := appendTrimmed(res, p, d); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func appendTrimmed(res, pattern, doc *dom.Node) error {
	t, err := Trim(pattern, doc)
	if err != nil || t == nil {
		return err
	}
	if err := res.Append(t); err != nil {
		t.Release()
		return err
	}
	return nil
}

// TrimDocument is Trim for documents. The result shares doc's about URI,
// prefixes and namespace auto-registration setting.
func TrimDocument(pattern, doc *dom.Metadata) (*dom.Metadata, error) {
	res := dom.NewMetadata()
	res.SetAboutURI(doc.AboutURI())
	res.Prefixes().Merge(doc.Prefixes())
	if !doc.Feature(dom.FeatureAutoRegisterNamespaces) {
		if err := res.DisableFeature(dom.FeatureAutoRegisterNamespaces); err != nil {
			return nil, err
		}
	}
	t, err := Trim(pattern.Node, doc.Node)
	if err != nil {
		return nil, err
	}
	defer t.Release()
	for _, c := range t.Children() {
		if err := t.Remove(c); err != nil {
			res.Release()
			return nil, err
		}
		if err := res.Append(c); err != nil {
			c.Release()
			res.Release()
			return nil, err
		}
	}
	res.AcknowledgeChanges()
	return res, nil
}

func copyQualifiers(dst, src *dom.Node) error {
	for _, q := range src.Qualifiers() {
		qc := q.Clone()
		if err := dst.AddQualifier(qc); err != nil {
			qc.Release()
			return err
		}
	}
	return nil
}
