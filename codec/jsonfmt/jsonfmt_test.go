package jsonfmt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xmpdom/codec/rdfxml"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

const sample = `{
  "about": "uuid:1",
  "namespaces": {"ex": "http://ns.example/"},
  "properties": {
    "dc:title": {"kind": "array", "form": "alt", "items": [
      {"value": "Hello", "qualifiers": {"xml:lang": {"value": "x-default"}}},
      {"value": "Bonjour", "qualifiers": {"xml:lang": {"value": "fr"}}}
    ]},
    "ex:rating": {"value": "3", "type": "http://www.w3.org/2001/XMLSchema#integer"},
    "ex:home": {"value": "http://example.com/", "uri": true},
    "ex:ref": {"kind": "structure", "fields": {"ex:id": {"value": "1"}, "ex:blank": {}}},
    "ex:list": {"kind": "array", "form": "seq"},
    "ex:noted": {"value": "v", "qualifiers": {"ex:note": {"kind": "structure", "fields": {"ex:by": {"value": "me"}}}}}
  }
}`

func wantCode(t *testing.T, err error, d xmperr.Domain, c xmperr.Code) {
	t.Helper()
	if !xmperr.Is(err, d, c) {
		t.Fatalf("got %v, want %s", err, xmperr.CodeName(d, c))
	}
}

func parse(t *testing.T, src string) *dom.Metadata {
	t.Helper()
	md, err := plugin.Parse(NewParser(), []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return md
}

func serialize(t *testing.T, md *dom.Metadata, opts map[string]any) string {
	t.Helper()
	s := NewSerializer()
	if err := plugin.Configure(s, opts); err != nil {
		t.Fatal(err)
	}
	out, err := plugin.Serialize(s, md)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func value(t *testing.T, md *dom.Metadata, path string) string {
	t.Helper()
	n, err := dom.ResolveString(md.Node, path)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return n.Value()
}

func TestParse(t *testing.T) {
	md := parse(t, sample)
	if md.AboutURI() != "uuid:1" {
		t.Errorf("about %q", md.AboutURI())
	}
	got := map[string]string{}
	for _, p := range []string{
		"dc:title[1]",
		`dc:title[?xml:lang="fr"]`,
		"ex:rating",
		"ex:home",
		"ex:ref/ex:id",
		"ex:ref/ex:blank",
		"ex:noted/@ex:note/ex:by",
	} {
		got[p] = value(t, md, p)
	}
	want := map[string]string{
		"dc:title[1]":              "Hello",
		`dc:title[?xml:lang="fr"]`: "Bonjour",
		"ex:rating":                "3",
		"ex:home":                  "http://example.com/",
		"ex:ref/ex:id":             "1",
		"ex:ref/ex:blank":          "",
		"ex:noted/@ex:note/ex:by":  "me",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	title, _ := dom.ResolveString(md.Node, "dc:title")
	if title.Form() != dom.Alternative {
		t.Errorf("title form %s", title.Form())
	}
	list, _ := dom.ResolveString(md.Node, "ex:list")
	if list.Kind() != dom.ArrayKind || list.Form() != dom.Ordered || list.Len() != 0 {
		t.Errorf("ex:list %s %s %d", list.Kind(), list.Form(), list.Len())
	}
	home, _ := dom.ResolveString(md.Node, "ex:home")
	if !home.IsURI() {
		t.Error("ex:home is not a URI")
	}
	if md.HasChanged() {
		t.Error("freshly parsed document is changed")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, indent := range []string{"  ", ""} {
		md := parse(t, sample)
		out := serialize(t, md, map[string]any{Indent: indent})
		again := parse(t, out)
		if !dom.Equal(md.Node, again.Node) {
			t.Errorf("round trip differs:\n%s", out)
		}
		if diff := cmp.Diff(out, serialize(t, again, map[string]any{Indent: indent})); diff != "" {
			t.Errorf("serialization is not stable: %s", diff)
		}
		if indent == "" && strings.Count(out, "\n") != 1 {
			t.Errorf("compact output spans lines:\n%s", out)
		}
	}
}

func TestFromRDF(t *testing.T) {
	src := `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:ex="http://ns.example/">
   <dc:subject><rdf:Bag><rdf:li>a</rdf:li><rdf:li>b</rdf:li></rdf:Bag></dc:subject>
   <ex:ref rdf:parseType="Resource"><ex:id>7</ex:id></ex:ref>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`
	md, err := plugin.Parse(rdfxml.NewParser(), []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	out := serialize(t, md, nil)
	again := parse(t, out)
	if !dom.Equal(md.Node, again.Node) {
		t.Errorf("rdf to json differs:\n%s", out)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		d    xmperr.Domain
		c    xmperr.Code
	}{
		{"syntax", `{"properties": `, xmperr.Parser, xmperr.BadXMP},
		{"trailing", `{} {}`, xmperr.Parser, xmperr.BadXMP},
		{"not prefixed", `{"properties": {"title": {}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"unknown prefix", `{"properties": {"zz:title": {}}}`, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing},
		{"unknown kind", `{"properties": {"dc:title": {"kind": "tree"}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"unknown form", `{"properties": {"dc:title": {"kind": "array", "form": "set"}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"simple with items", `{"properties": {"dc:title": {"items": []}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"array with value", `{"properties": {"dc:title": {"kind": "array", "value": "x"}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"null", `{"properties": {"dc:title": null}}`, xmperr.DataModel, xmperr.BadSchema},
		{"null item", `{"properties": {"dc:title": {"kind": "array", "items": [null]}}}`, xmperr.DataModel, xmperr.BadSchema},
		{"bad prefix", `{"namespaces": {"1a": "http://x/"}}`, xmperr.General, xmperr.ParametersNotAsExpected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := plugin.Parse(NewParser(), []byte(tc.src))
			wantCode(t, err, tc.d, tc.c)
		})
	}
}

func TestDisallowUnknownFields(t *testing.T) {
	src := `{"properties": {"dc:title": {"value": "x", "colour": "red"}}}`
	md := parse(t, src)
	if v := value(t, md, "dc:title"); v != "x" {
		t.Errorf("dc:title %q", v)
	}
	p := NewParser()
	if err := plugin.Configure(p, map[string]any{DisallowUnknownFields: true}); err != nil {
		t.Fatal(err)
	}
	_, err := plugin.Parse(p, []byte(src))
	wantCode(t, err, xmperr.Parser, xmperr.BadXMP)
}

func TestEmpty(t *testing.T) {
	md := parse(t, " \n")
	if md.Len() != 0 {
		t.Errorf("%d properties", md.Len())
	}
	if out := serialize(t, md, map[string]any{Indent: ""}); out != "{}\n" {
		t.Errorf("got %q", out)
	}
}

func TestPatch(t *testing.T) {
	md := parse(t, sample)
	patched, err := Patch(md, []byte(`[
  {"op": "replace", "path": "/properties/dc:title/items/0/value", "value": "Hi"},
  {"op": "add", "path": "/properties/ex:added", "value": {"value": "new"}},
  {"op": "remove", "path": "/properties/ex:list"}
]`))
	if err != nil {
		t.Fatal(err)
	}
	if v := value(t, patched, "dc:title[1]"); v != "Hi" {
		t.Errorf("title %q", v)
	}
	if v := value(t, patched, "ex:added"); v != "new" {
		t.Errorf("added %q", v)
	}
	if patched.Lookup("http://ns.example/", "list") != nil {
		t.Error("ex:list not removed")
	}
	if v := value(t, md, "dc:title[1]"); v != "Hello" {
		t.Errorf("source document changed: %q", v)
	}

	_, err = Patch(md, []byte(`{"op": "add"}`))
	wantCode(t, err, xmperr.General, xmperr.ParametersNotAsExpected)
	_, err = Patch(md, []byte(`[{"op": "remove", "path": "/properties/ex:missing"}]`))
	wantCode(t, err, xmperr.DataModel, xmperr.NoSuchNodeExists)
	_, err = Patch(md, []byte(`[{"op": "add", "path": "/properties/ex:bad", "value": {"kind": "tree"}}]`))
	wantCode(t, err, xmperr.DataModel, xmperr.BadSchema)
}

func TestRegister(t *testing.T) {
	plugin.Init()
	t.Cleanup(plugin.Teardown)
	if err := Register(); err != nil {
		t.Fatal(err)
	}
	if _, ok := plugin.LookupParser(ID); !ok {
		t.Error("parser not registered")
	}
	if _, ok := plugin.LookupSerializer(ID); !ok {
		t.Error("serializer not registered")
	}
}
