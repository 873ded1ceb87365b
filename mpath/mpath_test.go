package mpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

const (
	nsDC  = nsmap.NSDC
	nsXML = nsmap.NSXML
	nsEx  = "http://ns.example/"
)

func testMap(t *testing.T) *nsmap.Map {
	t.Helper()
	m, err := nsmap.FromEntries(
		nsmap.Entry{Prefix: "dc", Namespace: nsDC},
		nsmap.Entry{Prefix: "xml", Namespace: nsXML},
		nsmap.Entry{Prefix: "ex", Namespace: nsEx})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestParse(t *testing.T) {
	m := testMap(t)
	tests := []struct {
		name  string
		input string
		want  []Segment
	}{
		{
			name:  "empty path",
			input: "",
			want:  nil,
		},
		{
			name:  "property",
			input: "ex:title",
			want:  []Segment{Property(nsEx, "title")},
		},
		{
			name:  "nested",
			input: "ex:a/dc:b",
			want:  []Segment{Property(nsEx, "a"), Property(nsDC, "b")},
		},
		{
			name:  "array index",
			input: "dc:subject[2]",
			want:  []Segment{Property(nsDC, "subject"), Index(2)},
		},
		{
			name:  "nested arrays",
			input: "ex:m[1][3]",
			want:  []Segment{Property(nsEx, "m"), Index(1), Index(3)},
		},
		{
			name:  "qualifier",
			input: "dc:title[1]/@xml:lang",
			want:  []Segment{Property(nsDC, "title"), Index(1), Qualifier(nsXML, "lang")},
		},
		{
			name:  "leading qualifier",
			input: "@xml:lang",
			want:  []Segment{Qualifier(nsXML, "lang")},
		},
		{
			name:  "selector",
			input: `dc:title[?xml:lang="x-default"]`,
			want:  []Segment{Property(nsDC, "title"), Selector(nsXML, "lang", "x-default")},
		},
		{
			name:  "selector with escapes",
			input: `dc:title[?xml:lang="a\"]/b"]/ex:c`,
			want:  []Segment{Property(nsDC, "title"), Selector(nsXML, "lang", `a"]/b`), Property(nsEx, "c")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, m)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got.Segments()); diff != "" {
				t.Errorf("segments (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	m := testMap(t)
	tests := []struct {
		name  string
		input string
		code  xmperr.Code
	}{
		{"leading slash", "/ex:a", xmperr.InvalidPathSegment},
		{"trailing slash", "ex:a/", xmperr.InvalidPathSegment},
		{"leading bad index", "[0]/ex:a", xmperr.InvalidPathSegment},
		{"leading unterminated selector", `[?xml:lang="en"`, xmperr.InvalidPathSegment},
		{"no prefix", "title", xmperr.InvalidPathSegment},
		{"bad name", "ex:1a", xmperr.InvalidPathSegment},
		{"zero index", "ex:a[0]", xmperr.InvalidPathSegment},
		{"signed index", "ex:a[+1]", xmperr.InvalidPathSegment},
		{"unterminated index", "ex:a[1", xmperr.InvalidPathSegment},
		{"unquoted selector", "ex:a[?xml:lang=en]", xmperr.InvalidPathSegment},
		{"unterminated selector", `ex:a[?xml:lang="en"`, xmperr.InvalidPathSegment},
		{"junk after index", "ex:a[1]ex:b", xmperr.InvalidPathSegment},
		{"unknown prefix", "zz:a", xmperr.NameSpacePrefixMapEntryMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input, m)
			if !xmperr.Is(err, xmperr.DataModel, tt.code) {
				t.Errorf("got %v, %v", p, err)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	m := testMap(t)
	paths := []*Path{
		New(),
		New(Property(nsEx, "title")),
		New(Property(nsDC, "subject"), Index(3)),
		New(Property(nsDC, "title"), Index(1), Qualifier(nsXML, "lang")),
		New(Property(nsDC, "title"), Selector(nsXML, "lang", `quote " and \`), Property(nsEx, "x")),
		New(Qualifier(nsXML, "lang")),
		New(Index(2)),
		New(Selector(nsXML, "lang", "en")),
		New(Index(1), Property(nsDC, "title")),
		New(Index(1), Index(2)),
	}
	for _, p := range paths {
		s, err := p.String(m)
		if err != nil {
			t.Fatal(err)
		}
		back, err := Parse(s, m)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if !back.Equal(p) {
			t.Errorf("%q did not round trip: %v", s, back.Segments())
		}
	}
}

func TestStringMissingPrefix(t *testing.T) {
	p := New(Property("http://unmapped/", "x"))
	_, err := p.String(testMap(t))
	if !xmperr.Is(err, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing) {
		t.Errorf("got %v", err)
	}
}

func TestEditing(t *testing.T) {
	p := New(Property(nsEx, "a"), Index(1), Property(nsEx, "b"))
	if p.Len() != 3 {
		t.Fatalf("len %d", p.Len())
	}
	s, err := p.At(2)
	if err != nil || s != Index(1) {
		t.Errorf("At(2) = %v, %v", s, err)
	}
	if _, err := p.At(4); !xmperr.Is(err, xmperr.General, xmperr.IndexOutOfBounds) {
		t.Errorf("At(4): %v", err)
	}
	sub, err := p.Slice(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Segment{Index(1), Property(nsEx, "b")}, sub.Segments()); diff != "" {
		t.Errorf("slice (-want +got):\n%s", diff)
	}
	c := p.Clone()
	if _, err := c.Remove(1); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 || c.Len() != 2 {
		t.Errorf("clone shares storage")
	}
	if got := p.Parent().Len(); got != 2 {
		t.Errorf("parent len %d", got)
	}
	if New().Parent() != nil {
		t.Errorf("parent of empty path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    *Path
		ok   bool
	}{
		{"good", New(Property(nsEx, "a"), Index(1)), true},
		{"empty ns", New(Property("", "a")), false},
		{"bad name", New(Qualifier(nsEx, "a b")), false},
		{"zero index", New(Index(0)), false},
		{"no kind", New(Segment{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok != (err == nil) {
				t.Errorf("got %v", err)
			}
			if err != nil && !xmperr.Is(err, xmperr.DataModel, xmperr.InvalidPathSegment) {
				t.Errorf("wrong code: %v", err)
			}
		})
	}
}
