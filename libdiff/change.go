// Package libdiff computes structural differences between document trees.
package libdiff

import (
	"strconv"
	"strings"

	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/mpath"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	// Insert adds To.
	Insert Op = iota
	// Delete drops From.
	Delete
	// Replace swaps From for To wholesale.
	Replace
	// Edit changes the value of a simple node; Text holds the character
	// diff.
	Edit
	// Retag changes the type hint or URI flag of a simple node or the form
	// of an array.
	Retag
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	case Edit:
		return "edit"
	case Retag:
		return "retag"
	default:
		return "op-" + strconv.Itoa(int(o))
	}
}

// Sigil is the one character marker of o used by Format.
func (o Op) Sigil() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	case Replace:
		return "!"
	case Edit:
		return "~"
	case Retag:
		return "^"
	default:
		return "?"
	}
}

// Change is one difference. Path is relative to the node Diff started
// from. Paths of insertions address the new tree, all others the old one.
type Change struct {
	Op   Op
	Path *mpath.Path
	From *dom.Node
	To   *dom.Node
	Text []diffpatch.Diff
}

// Format renders c on one line, naming namespaces with m.
func (c Change) Format(m mpath.Prefixes) string {
	p, err := c.Path.String(m)
	if err != nil {
		segs := c.Path.Segments()
		parts := make([]string, len(segs))
		for i, s := range segs {
			parts[i] = s.String()
		}
		p = strings.Join(parts, "/")
	}
	if p == "" {
		p = "/"
	}
	buf := &strings.Builder{}
	buf.WriteString(c.Op.Sigil() + " " + p + ": ")
	switch c.Op {
	case Insert:
		buf.WriteString(repr(c.To))
	case Delete:
		buf.WriteString(repr(c.From))
	case Replace:
		buf.WriteString(repr(c.From) + " -> " + repr(c.To))
	case Retag:
		buf.WriteString(tags(c.From) + " -> " + tags(c.To))
	case Edit:
		buf.WriteString(`"`)
		for _, d := range c.Text {
			switch d.Type {
			case diffpatch.DiffEqual:
				buf.WriteString(d.Text)
			case diffpatch.DiffDelete:
				buf.WriteString("[-" + d.Text + "-]")
			case diffpatch.DiffInsert:
				buf.WriteString("{+" + d.Text + "+}")
			}
		}
		buf.WriteString(`"`)
	}
	return buf.String()
}

func repr(n *dom.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind() {
	case dom.ArrayKind:
		return "[" + n.Form().String() + "] " + strconv.Itoa(n.Len()) + " items"
	case dom.StructureKind:
		return "{} " + strconv.Itoa(n.Len()) + " fields"
	}
	if n.IsURI() {
		return "<" + n.Value() + ">"
	}
	return strconv.Quote(n.Value())
}

func tags(n *dom.Node) string {
	if n.Kind() == dom.ArrayKind {
		return n.Form().String()
	}
	var parts []string
	if n.IsURI() {
		parts = append(parts, "uri")
	}
	if h := n.TypeHint(); h != "" {
		parts = append(parts, "^^"+h)
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, " ")
}
