package eval

import "github.com/expr-lang/expr"

// Symbol is a function available to queries. Option binds it to the
// state of one compiled query.
type Symbol interface {
	String() string
	Option(s *State) expr.Option
}

type name string

func (s name) String() string {
	return string(s)
}

// funcSymbol adapts a closure over State to a Symbol. types follows
// expr.Function: one or more func values describing the signatures.
type funcSymbol struct {
	name
	fn    func(s *State, params ...any) (any, error)
	types []any
}

func (f *funcSymbol) Option(s *State) expr.Option {
	return expr.Function(f.String(), func(params ...any) (any, error) {
		return f.fn(s, params...)
	}, f.types...)
}

// Func makes a Symbol named n.
func Func(n string, fn func(s *State, params ...any) (any, error), types ...any) Symbol {
	return &funcSymbol{name: name(n), fn: fn, types: types}
}
