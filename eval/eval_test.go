package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

const ex = "http://ns.example/"

func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
}

func check(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func buildDoc(t *testing.T) *dom.Metadata {
	node := must[*dom.Node](t)
	md := dom.NewMetadata()
	must[string](t)(md.RegisterNamespace(ex, "ex"))

	title := node(dom.NewArray(nsmap.NSDC, "title", dom.Alternative, false))
	for _, lv := range [][2]string{{"x-default", "Hello"}, {"fr", "Bonjour"}} {
		item := node(dom.NewSimple(nsmap.NSDC, "title", lv[1]))
		check(t, item.AddQualifier(node(dom.NewSimple(nsmap.NSXML, "lang", lv[0]))))
		check(t, title.Append(item))
	}
	check(t, md.Append(title))

	subject := node(dom.NewArray(nsmap.NSDC, "subject", dom.Unordered, false))
	for _, v := range []string{"a", "b"} {
		check(t, subject.Append(node(dom.NewSimple(nsmap.NSDC, "subject", v))))
	}
	check(t, md.Append(subject))

	check(t, md.Append(node(dom.NewSimple(ex, "rating", "3"))))
	ref := node(dom.NewStructure(ex, "ref"))
	check(t, ref.Append(node(dom.NewSimple(ex, "id", "7"))))
	check(t, md.Append(ref))
	return md
}

func paths(t *testing.T, md *dom.Metadata, ns []*dom.Node) []string {
	t.Helper()
	res := make([]string, len(ns))
	for i, n := range ns {
		res[i] = n.Path().MustString(md.Prefixes())
	}
	return res
}

func TestSelect(t *testing.T) {
	t.Setenv("XMPDOM_EVAL_TEST", "3")
	md := buildDoc(t)
	tests := []struct {
		src  string
		want []string
	}{
		{`qual("xml:lang") == "fr"`, []string{"dc:title[2]"}},
		{`item && value == "b"`, []string{"dc:subject[2]"}},
		{`prefix == "ex" && name == "rating" && int(value) > 2`, []string{"ex:rating"}},
		{`qualifier`, []string{"dc:title[1]/@xml:lang", "dc:title[2]/@xml:lang"}},
		{`kind == "array" && count == 2`, []string{"dc:title", "dc:subject"}},
		{`form == "alternative"`, []string{"dc:title"}},
		{`whereami() == "ex:ref/ex:id"`, []string{"ex:ref/ex:id"}},
		{`child("ex:id") == "7"`, []string{"ex:ref"}},
		{`kind == "structure" && getpath("ex:ref/ex:id") == "7"`, []string{"ex:ref"}},
		{`kind == "array" && "a" in listpath(path)`, []string{"dc:subject"}},
		{`hasqual("xml:lang") && value startsWith "B"`, []string{"dc:title[2]"}},
		{`value == getenv("XMPDOM_EVAL_TEST")`, []string{"ex:rating"}},
		{`value == "nothing"`, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Select(md.Node, tc.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, paths(t, md, got)); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestExtraPrefixes(t *testing.T) {
	md := buildDoc(t)
	m := nsmap.New()
	check(t, m.Insert("e", ex))
	got, err := Select(md.Node, `prefix == "e"`, m)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ex:rating", "ex:ref", "ex:ref/ex:id"}, paths(t, md, got)); diff != "" {
		t.Error(diff)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{`value +`, `value`, `nosuch(1)`} {
		_, err := Compile(src)
		if !xmperr.Is(err, xmperr.General, xmperr.ParametersNotAsExpected) {
			t.Errorf("%s: got %v", src, err)
		}
	}
}

func TestRunErrors(t *testing.T) {
	md := buildDoc(t)
	if _, err := Select(md.Node, `getpath("ex:missing") == "x"`); err == nil {
		t.Error("missing path did not fail")
	}
	q, err := Compile(`true`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.Match(nil); !xmperr.Is(err, xmperr.General, xmperr.ParametersNotAsExpected) {
		t.Errorf("got %v", err)
	}
}

func TestDetached(t *testing.T) {
	n, err := dom.NewSimple(ex, "loose", "v")
	if err != nil {
		t.Fatal(err)
	}
	m := nsmap.New()
	check(t, m.Insert("ex", ex))
	q, err := Compile(`value == "v" && path == ""`, m)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := q.Match(n)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("no match")
	}
}

func TestToValue(t *testing.T) {
	md := buildDoc(t)
	got, err := ToValue(md.Node, md.Prefixes())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"dc:title":   []any{"Hello", "Bonjour"},
		"dc:subject": []any{"a", "b"},
		"ex:rating":  "3",
		"ex:ref":     map[string]any{"ex:id": "7"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}

func TestRegister(t *testing.T) {
	if err := Register(OSEnv()); !errors.Is(err, ErrSymbolExists) {
		t.Errorf("got %v", err)
	}
	if Lookup("qual") == nil {
		t.Error("qual not registered")
	}
	names := []string{}
	for _, s := range Symbols() {
		names = append(names, s.String())
	}
	want := []string{"child", "getenv", "getpath", "hasqual", "listpath", "qual", "whereami"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Error(diff)
	}
}
