package eval

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Env is what a query sees of the node it runs on.
type Env struct {
	Kind      string `expr:"kind"`
	Namespace string `expr:"ns"`
	Name      string `expr:"name"`
	Prefix    string `expr:"prefix"`
	Value     string `expr:"value"`
	URI       bool   `expr:"uri"`
	Hint      string `expr:"hint"`
	Form      string `expr:"form"`
	Count     int    `expr:"count"`
	Path      string `expr:"path"`
	Qualifier bool   `expr:"qualifier"`
	Item      bool   `expr:"item"`
}

// State is the node a compiled query is running on. Functions read it
// through their Symbol.
type State struct {
	cur *dom.Node
	m   prefixes
	doc int
}

func (s *State) qname(q string) (string, string, error) {
	return splitName(s.m, q)
}

func (s *State) path(n *dom.Node) (string, error) {
	return n.Path().String(s.m)
}

// Query is a compiled boolean expression. It is not safe for concurrent
// use.
type Query struct {
	src     string
	program *vm.Program
	state   *State
}

// Compile compiles a boolean expression over Env with every registered
// Symbol available. extra maps further prefixes ahead of the document's
// own and the default ones.
func Compile(src string, extra ...*nsmap.Map) (*Query, error) {
	st := &State{m: make(prefixes, 0, len(extra)+2), doc: len(extra)}
	st.m = append(st.m, extra...)
	st.m = append(st.m, nsmap.New(), nsmap.Default())
	opts := []expr.Option{expr.Env(Env{}), expr.AsBool()}
	for _, s := range Symbols() {
		opts = append(opts, s.Option(st))
	}
	program, err := expr.Compile(src, opts...)
	if err != nil {
		e := xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "query %q", src)
		e.Cause = err
		return nil, e
	}
	return &Query{src: src, program: program, state: st}, nil
}

func (q *Query) String() string {
	return q.src
}

// Match runs q on n.
func (q *Query) Match(n *dom.Node) (bool, error) {
	if n == nil {
		return false, xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "nil node")
	}
	q.state.cur = n
	q.state.m[q.state.doc] = docPrefixes(n)
	env, err := q.env(n)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(q.program, env)
	if err != nil {
		return false, fmt.Errorf("query %q at %s: %w", q.src, env.Path, err)
	}
	if debug.Eval() {
		debug.Logf("eval %q at %q: %v\n", q.src, env.Path, out)
	}
	return out.(bool), nil
}

func docPrefixes(n *dom.Node) *nsmap.Map {
	if md := n.Root().Document(); md != nil {
		return md.Prefixes()
	}
	return nsmap.New()
}

func (q *Query) env(n *dom.Node) (Env, error) {
	env := Env{
		Kind:      n.Kind().String(),
		Namespace: n.Namespace(),
		Name:      n.Name(),
		Count:     n.Len(),
		Qualifier: n.IsQualifier(),
		Item:      n.IsArrayItem(),
	}
	if n.Namespace() != "" {
		p, err := q.state.m.Prefix(n.Namespace())
		if err != nil {
			return env, err
		}
		env.Prefix = p
	}
	path, err := q.state.path(n)
	if err != nil {
		return env, err
	}
	env.Path = path
	switch n.Kind() {
	case dom.SimpleKind:
		env.Value = n.Value()
		env.URI = n.IsURI()
		env.Hint = n.TypeHint()
	case dom.ArrayKind:
		env.Form = n.Form().String()
	}
	return env, nil
}

// Select returns the nodes below root, qualifiers included, on which the
// query src is true, in document order.
func Select(root *dom.Node, src string, extra ...*nsmap.Map) ([]*dom.Node, error) {
	q, err := Compile(src, extra...)
	if err != nil {
		return nil, err
	}
	var (
		res  []*dom.Node
		werr error
	)
	dom.Walk(root, func(n *dom.Node) bool {
		if n == root {
			return true
		}
		ok, err := q.Match(n)
		if err != nil {
			werr = err
			return false
		}
		if ok {
			res = append(res, n)
		}
		return true
	})
	return res, werr
}
