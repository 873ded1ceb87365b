package encode

import (
	"strings"

	"github.com/signadot/xmpdom/dom"

	"github.com/fatih/color"
)

type Colorable struct {
	Kind dom.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	TagColor
	NameColor
	ValueColor
	URIColor
	HintColor
	QualifierColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range []dom.Kind{dom.NoKind, dom.SimpleKind, dom.ArrayKind, dom.StructureKind} {
		able := Colorable{Kind: k, Attr: TagColor}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = CommentColor
		colors.Map[able] = color.BlueString
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = QualifierColor
		colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	}
	able := Colorable{Kind: dom.SimpleKind, Attr: NameColor}
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Attr = ValueColor
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Attr = URIColor
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Attr = HintColor
	colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()

	able.Kind = dom.ArrayKind
	able.Attr = NameColor
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Kind = dom.StructureKind
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k dom.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k dom.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
