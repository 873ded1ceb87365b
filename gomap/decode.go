// Package gomap loads documents into Go values.
//
// Top level properties, structure fields and array items map onto Go
// values the way encoding/json maps objects and arrays, with object keys
// of the form "prefix:name". Simple values are strings. Qualifiers are
// not carried over.
package gomap

import (
	"encoding/json"
	"fmt"

	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/eval"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
)

type loadOpts struct {
	prefixes *nsmap.Map
}

type LoadOption func(*loadOpts)

// LoadPrefixes names namespaces with m instead of the document's own
// prefixes backed by the defaults.
func LoadPrefixes(m *nsmap.Map) LoadOption { return func(o *loadOpts) { o.prefixes = m } }

// DOMLoader is implemented by values which load themselves.
type DOMLoader interface {
	FromDOM(*dom.Metadata, ...LoadOption) error
}

// Load stores the properties of md in the value pointed to by p.
func Load(md *dom.Metadata, p any, opts ...LoadOption) error {
	if x, ok := p.(DOMLoader); ok {
		return x.FromDOM(md, opts...)
	}
	lo := &loadOpts{}
	for _, f := range opts {
		f(lo)
	}
	m := lo.prefixes
	if m == nil {
		m = md.Prefixes().Clone()
		m.Merge(nsmap.Default())
	}
	v, err := eval.ToValue(md.Node, m)
	if err != nil {
		return err
	}
	d, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if debug.Eval() {
		debug.Logf("gomap: %s\n", d)
	}
	if err := json.Unmarshal(d, p); err != nil {
		return fmt.Errorf("could not load into %T: %w", p, err)
	}
	return nil
}

// Parse parses d with pr and loads the result into p.
func Parse(pr plugin.Parser, d []byte, p any, opts ...LoadOption) error {
	md, err := plugin.Parse(pr, d)
	if err != nil {
		return err
	}
	defer md.Release()
	return Load(md, p, opts...)
}
