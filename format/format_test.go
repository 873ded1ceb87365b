package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"r", RDFFormat},
		{"rdf", RDFFormat},
		{"xml", RDFFormat},
		{"j", JSONFormat},
		{"yaml", YAMLFormat},
		{"o", OutlineFormat},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("%s: got %s want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v", err)
	}
}

func TestText(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("%s came back as %s", f, g)
		}
	}
	if _, err := Format(99).MarshalText(); err == nil {
		t.Error("bad format marshalled")
	}
}

func TestFromSuffix(t *testing.T) {
	tests := []struct {
		name string
		want Format
		ok   bool
	}{
		{"a.xmp", RDFFormat, true},
		{"a.xml", RDFFormat, true},
		{"dir/a.json", JSONFormat, true},
		{"a.yml", YAMLFormat, true},
		{"a.toml", 0, false},
	}
	for _, tc := range tests {
		got, ok := FromSuffix(tc.name)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: got %s %t", tc.name, got, ok)
		}
	}
}
