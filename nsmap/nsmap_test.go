package nsmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xmpdom/xmperr"
)

func TestRegister(t *testing.T) {
	m := New()
	tests := []struct {
		name      string
		uri       string
		preferred string
		want      string
	}{
		{"fresh", "http://ns.example/", "ex", "ex"},
		{"same uri keeps prefix", "http://ns.example/", "other", "ex"},
		{"collision", "http://ns.example/2/", "ex", "ex1"},
		{"second collision", "http://ns.example/3/", "ex", "ex2"},
		{"suffixed prefix taken", "http://ns.example/4/", "ex1", "ex11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Register(tt.uri, tt.preferred)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterInvalid(t *testing.T) {
	m := New()
	for _, tt := range []struct{ uri, prefix string }{
		{"", "ex"},
		{"http://a/", ""},
		{"http://a/", "1ex"},
		{"http://a/", "e:x"},
	} {
		_, err := m.Register(tt.uri, tt.prefix)
		if !xmperr.Is(err, xmperr.General, xmperr.ParametersNotAsExpected) {
			t.Errorf("Register(%q, %q): %v", tt.uri, tt.prefix, err)
		}
	}
}

func TestLookupMissing(t *testing.T) {
	m := New()
	if _, err := m.Prefix("http://nope/"); !xmperr.Is(err, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing) {
		t.Errorf("Prefix: %v", err)
	}
	if _, err := m.Namespace("nope"); !xmperr.Is(err, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing) {
		t.Errorf("Namespace: %v", err)
	}
}

func TestBijection(t *testing.T) {
	m := New()
	uris := []string{"http://a/", "http://b/", "http://c/", "http://d/"}
	for _, u := range uris {
		if _, err := m.Register(u, "p"); err != nil {
			t.Fatal(err)
		}
	}
	m.Insert("q", "http://b/")
	if err := m.RemoveNamespace("http://c/"); err != nil {
		t.Fatal(err)
	}
	for _, e := range m.Entries() {
		ns, err := m.Namespace(e.Prefix)
		if err != nil {
			t.Fatal(err)
		}
		p, err := m.Prefix(ns)
		if err != nil {
			t.Fatal(err)
		}
		if p != e.Prefix {
			t.Errorf("Prefix(Namespace(%q)) = %q", e.Prefix, p)
		}
	}
	if m.HasPrefix("p1") {
		t.Errorf("Insert left a stale prefix for http://b/")
	}
}

func TestInsertReplacesBoth(t *testing.T) {
	m, err := FromEntries(Entry{"a", "http://a/"}, Entry{"b", "http://b/"})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Insert("a", "http://b/"); err != nil {
		t.Fatal(err)
	}
	want := []Entry{{"a", "http://b/"}}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestRemoveInUse(t *testing.T) {
	m := New()
	m.Register("http://used/", "u")
	m.Register("http://free/", "f")
	m.SetUsage(func(uri string) bool { return uri == "http://used/" })

	if err := m.RemovePrefix("u"); !xmperr.Is(err, xmperr.DataModel, xmperr.NodeAlreadyAChild) {
		t.Errorf("remove in use: %v", err)
	}
	if !m.HasNamespace("http://used/") {
		t.Errorf("in use namespace was removed")
	}
	if err := m.RemoveNamespace("http://free/"); err != nil {
		t.Errorf("remove free: %v", err)
	}
	if err := m.RemoveNamespace("http://free/"); !xmperr.Is(err, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing) {
		t.Errorf("remove twice: %v", err)
	}
}

func TestCloneMerge(t *testing.T) {
	m, _ := FromEntries(Entry{"a", "http://a/"})
	c := m.Clone()
	c.Register("http://b/", "b")
	if m.HasPrefix("b") {
		t.Errorf("clone aliases original")
	}
	o, _ := FromEntries(Entry{"a", "http://other/"}, Entry{"c", "http://c/"}, Entry{"z", "http://a/"})
	if n := m.Merge(o); n != 1 {
		t.Errorf("merged %d entries, want 1", n)
	}
	want := []Entry{{"a", "http://a/"}, {"c", "http://c/"}}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestAdopt(t *testing.T) {
	m, _ := FromEntries(Entry{"a", "http://a/"})
	o, _ := FromEntries(Entry{"a", "http://other/"}, Entry{"c", "http://c/"}, Entry{"z", "http://a/"})
	if n := m.Adopt(o); n != 2 {
		t.Errorf("adopted %d namespaces, want 2", n)
	}
	want := []Entry{{"a", "http://a/"}, {"a1", "http://other/"}, {"c", "http://c/"}}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	for _, e := range WellKnown() {
		p, err := d.Prefix(e.Namespace)
		if err != nil || p != e.Prefix {
			t.Errorf("%s: %q %v", e.Namespace, p, err)
		}
	}
	if Default() != d {
		t.Errorf("Default is not a singleton")
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"title", true},
		{"_x", true},
		{"a-b.c1", true},
		{"Größe", true},
		{"", false},
		{"1a", false},
		{"a:b", false},
		{"a b", false},
		{"-a", false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.s); got != tt.want {
			t.Errorf("ValidName(%q) = %t", tt.s, got)
		}
	}
}
