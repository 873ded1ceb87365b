package dom

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/xmpdom/mpath"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

const exNS = "http://ns.example/"

func mustSimple(t *testing.T, ns, name, v string) *Node {
	t.Helper()
	n, err := NewSimple(ns, name, v)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func mustArray(t *testing.T, ns, name string, f ArrayForm, homogeneous bool) *Node {
	t.Helper()
	n, err := NewArray(ns, name, f, homogeneous)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func mustStruct(t *testing.T, ns, name string) *Node {
	t.Helper()
	n, err := NewStructure(ns, name)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func wantCode(t *testing.T, err error, d xmperr.Domain, c xmperr.Code) {
	t.Helper()
	if !xmperr.Is(err, d, c) {
		t.Fatalf("got %v, want %s", err, xmperr.CodeName(d, c))
	}
}

func TestHello(t *testing.T) {
	md := NewMetadata()
	prefix, err := md.RegisterNamespace(exNS, "ex")
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "ex" {
		t.Fatalf("got prefix %q", prefix)
	}
	title := mustSimple(t, exNS, "title", "Hello")
	if err := md.Append(title); err != nil {
		t.Fatal(err)
	}
	n, err := ResolveString(md.Node, "ex:title")
	if err != nil {
		t.Fatal(err)
	}
	if n != title || n.Value() != "Hello" {
		t.Errorf("resolved %v %q", n, n.Value())
	}
	s, err := title.Path().String(md.Prefixes())
	if err != nil {
		t.Fatal(err)
	}
	if s != "ex:title" {
		t.Errorf("path %q", s)
	}
}

func TestDoubleAppend(t *testing.T) {
	md := NewMetadata()
	a := mustSimple(t, exNS, "title", "a")
	if err := md.Append(a); err != nil {
		t.Fatal(err)
	}
	b := mustSimple(t, exNS, "title", "b")
	wantCode(t, md.Append(b), xmperr.DataModel, xmperr.NodeAlreadyExists)
	if b.Parent() != nil {
		t.Error("rejected node kept a parent")
	}
	wantCode(t, md.Append(a), xmperr.DataModel, xmperr.NodeAlreadyAChild)
	if md.Len() != 1 {
		t.Errorf("len %d", md.Len())
	}
}

func TestHomogeneousRejection(t *testing.T) {
	arr := mustArray(t, exNS, "list", Ordered, true)
	first := mustSimple(t, exNS, "x", "1")
	first.SetTypeHint("int")
	if err := arr.Append(first); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		node *Node
	}{
		{"structure", mustStruct(t, exNS, "s")},
		{"other hint", func() *Node {
			n := mustSimple(t, exNS, "x", "a")
			n.SetTypeHint("text")
			return n
		}()},
		{"no hint", mustSimple(t, exNS, "x", "2")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wantCode(t, arr.Append(tc.node), xmperr.DataModel, xmperr.ArrayItemTypeDifferent)
			if arr.Len() != 1 {
				t.Errorf("len %d", arr.Len())
			}
			c, _ := arr.ChildAt(1)
			if c != first {
				t.Error("first item changed")
			}
			if tc.node.Parent() != nil {
				t.Error("rejected item kept a parent")
			}
		})
	}
	second := mustSimple(t, exNS, "y", "2")
	second.SetTypeHint("int")
	if err := arr.Append(second); err != nil {
		t.Fatal(err)
	}
	if second.Name() != "list" {
		t.Errorf("item name %q", second.Name())
	}
	wantCode(t, second.SetTypeHint("text"), xmperr.DataModel, xmperr.ArrayItemTypeDifferent)
}

func TestEmptyPathIdentity(t *testing.T) {
	nodes := []*Node{
		mustSimple(t, exNS, "a", "v"),
		mustArray(t, exNS, "b", Unordered, false),
		mustStruct(t, exNS, "c"),
		NewMetadata().Node,
	}
	for _, n := range nodes {
		got, err := Resolve(n, mpath.New())
		if err != nil {
			t.Fatal(err)
		}
		if got != n {
			t.Errorf("%s: empty path moved", n.Kind())
		}
		got, err = Resolve(n, nil)
		if err != nil || got != n {
			t.Errorf("%s: nil path: %v", n.Kind(), err)
		}
	}
}

func buildDoc(t *testing.T) *Metadata {
	t.Helper()
	md := NewMetadata()
	md.RegisterNamespace(exNS, "ex")
	md.Append(mustSimple(t, exNS, "title", "Hello"))
	alt := mustArray(t, exNS, "alt", Alternative, false)
	for _, lang := range []string{"x-default", "fr"} {
		item := mustSimple(t, exNS, "i", "v-"+lang)
		if err := item.AddQualifier(mustSimple(t, nsmap.NSXML, "lang", lang)); err != nil {
			t.Fatal(err)
		}
		if err := alt.Append(item); err != nil {
			t.Fatal(err)
		}
	}
	md.Append(alt)
	st := mustStruct(t, exNS, "info")
	st.Append(mustSimple(t, exNS, "name", "n"))
	md.Append(st)
	return md
}

func TestResolve(t *testing.T) {
	md := buildDoc(t)
	tests := []struct {
		path  string
		value string
	}{
		{"ex:title", "Hello"},
		{"ex:alt[1]", "v-x-default"},
		{"ex:alt[2]", "v-fr"},
		{`ex:alt[?xml:lang="fr"]`, "v-fr"},
		{"ex:alt[2]/@xml:lang", "fr"},
		{"ex:info/ex:name", "n"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			n, err := ResolveString(md.Node, tc.path)
			if err != nil {
				t.Fatal(err)
			}
			if n.Value() != tc.value {
				t.Errorf("got %q want %q", n.Value(), tc.value)
			}
			back, err := n.Path().String(md.Prefixes())
			if err != nil {
				t.Fatal(err)
			}
			again, err := ResolveString(md.Node, back)
			if err != nil || again != n {
				t.Errorf("path %q does not lead back: %v", back, err)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	md := buildDoc(t)
	tests := []struct {
		name   string
		path   *mpath.Path
		domain xmperr.Domain
		code   xmperr.Code
	}{
		{"missing", mpath.New(mpath.Property(exNS, "nope")), xmperr.DataModel, xmperr.NoSuchNodeExists},
		{"property of simple", mpath.New(mpath.Property(exNS, "title"), mpath.Property(exNS, "x")), xmperr.Parser, xmperr.ContextNodeIsNonComposite},
		{"property of array", mpath.New(mpath.Property(exNS, "alt"), mpath.Property(exNS, "x")), xmperr.DataModel, xmperr.DifferentNodeTypePresent},
		{"index of structure", mpath.New(mpath.Property(exNS, "info"), mpath.Index(1)), xmperr.Parser, xmperr.ContextNodeParentIsNonArray},
		{"index out of bounds", mpath.New(mpath.Property(exNS, "alt"), mpath.Index(3)), xmperr.General, xmperr.IndexOutOfBounds},
		{"bad index", mpath.New(mpath.Property(exNS, "alt"), mpath.Index(0)), xmperr.DataModel, xmperr.InvalidPathSegment},
		{"empty name", mpath.New(mpath.Property(exNS, "")), xmperr.DataModel, xmperr.InvalidPathSegment},
		{"unknown kind", mpath.New(mpath.Segment{}), xmperr.DataModel, xmperr.InvalidPathSegment},
		{"root qualifier", mpath.New(mpath.Qualifier(nsmap.NSXML, "lang")), xmperr.DataModel, xmperr.InvalidPathSegment},
		{"qualifier of qualifier", mpath.New(mpath.Property(exNS, "alt"), mpath.Index(1), mpath.Qualifier(nsmap.NSXML, "lang"), mpath.Qualifier(nsmap.NSXML, "lang")), xmperr.DataModel, xmperr.InvalidPathSegment},
		{"missing qualifier", mpath.New(mpath.Property(exNS, "title"), mpath.Qualifier(nsmap.NSXML, "lang")), xmperr.DataModel, xmperr.NoSuchNodeExists},
		{"selector miss", mpath.New(mpath.Property(exNS, "alt"), mpath.Selector(nsmap.NSXML, "lang", "de")), xmperr.DataModel, xmperr.NoSuchNodeExists},
		{"selector on structure", mpath.New(mpath.Property(exNS, "info"), mpath.Selector(nsmap.NSXML, "lang", "de")), xmperr.Parser, xmperr.ContextNodeParentIsNonArray},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(md.Node, tc.path)
			wantCode(t, err, tc.domain, tc.code)
		})
	}
}

func TestRemovePath(t *testing.T) {
	md := buildDoc(t)
	lang := mpath.New(mpath.Property(exNS, "alt"), mpath.Index(2), mpath.Qualifier(nsmap.NSXML, "lang"))
	if k, err := KindAt(md.Node, lang); err != nil || k != SimpleKind {
		t.Fatalf("kind %s: %v", k, err)
	}
	q, err := RemovePath(md.Node, lang)
	if err != nil {
		t.Fatal(err)
	}
	if q.Value() != "fr" || q.Parent() != nil || q.IsQualifier() {
		t.Errorf("qualifier %q still attached", q.Value())
	}
	if _, err := Resolve(md.Node, lang); !xmperr.Is(err, xmperr.DataModel, xmperr.NoSuchNodeExists) {
		t.Errorf("qualifier still resolves: %v", err)
	}

	item := mpath.New(mpath.Property(exNS, "alt"), mpath.Index(1))
	c, err := RemovePath(md.Node, item)
	if err != nil {
		t.Fatal(err)
	}
	if c.Value() != "v-x-default" || c.Parent() != nil {
		t.Errorf("item %q still attached", c.Value())
	}
	alt := md.Lookup(exNS, "alt")
	if alt.Len() != 1 {
		t.Errorf("alt has %d items", alt.Len())
	}

	name := mpath.New(mpath.Property(exNS, "info"), mpath.Property(exNS, "name"))
	if _, err := RemovePath(md.Node, name); err != nil {
		t.Fatal(err)
	}
	if md.Lookup(exNS, "info").Len() != 0 {
		t.Error("field not removed")
	}

	_, err = RemovePath(md.Node, mpath.New())
	wantCode(t, err, xmperr.General, xmperr.ParametersNotAsExpected)
	_, err = RemovePath(md.Node, name)
	wantCode(t, err, xmperr.DataModel, xmperr.NoSuchNodeExists)
	_, err = KindAt(md.Node, mpath.New(mpath.Property(exNS, "title"), mpath.Index(1)))
	wantCode(t, err, xmperr.Parser, xmperr.ContextNodeParentIsNonArray)
	if k, err := KindAt(md.Node, mpath.New()); err != nil || k != StructureKind {
		t.Errorf("root kind %s: %v", k, err)
	}
}

func TestStructureUniqueness(t *testing.T) {
	st := mustStruct(t, exNS, "s")
	a := mustSimple(t, exNS, "a", "1")
	b := mustSimple(t, exNS, "b", "2")
	st.Append(a)
	st.Append(b)
	wantCode(t, b.SetName(exNS, "a"), xmperr.DataModel, xmperr.NodeAlreadyExists)
	removed, err := st.RemoveNamed(exNS, "a")
	if err != nil || removed != a {
		t.Fatalf("remove: %v", err)
	}
	if a.Parent() != nil {
		t.Error("removed node kept its parent")
	}
	if err := b.SetName(exNS, "a"); err != nil {
		t.Fatal(err)
	}
	wantCode(t, st.Append(a), xmperr.DataModel, xmperr.NodeAlreadyExists)
	c := mustSimple(t, exNS, "c", "3")
	if err := st.InsertBefore(c, b); err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, x := range st.Children() {
		names = append(names, x.Name())
	}
	if diff := cmp.Diff([]string{"c", "a"}, names); diff != "" {
		t.Error(diff)
	}
	d := mustSimple(t, exNS, "c", "4")
	old := st.Lookup(exNS, "a")
	wantCode(t, st.Replace(d, old), xmperr.DataModel, xmperr.NodeAlreadyExists)
	d.SetName(exNS, "a")
	if err := st.Replace(d, old); err != nil {
		t.Fatal(err)
	}
	if st.Lookup(exNS, "a") != d || old.Parent() != nil {
		t.Error("replace did not swap")
	}
}

func TestMutationArgs(t *testing.T) {
	st := mustStruct(t, exNS, "s")
	simple := mustSimple(t, exNS, "v", "x")
	wantCode(t, st.Append(nil), xmperr.General, xmperr.ParametersNotAsExpected)
	wantCode(t, simple.Append(mustSimple(t, exNS, "w", "")), xmperr.DataModel, xmperr.DifferentNodeTypePresent)
	wantCode(t, st.Append(st), xmperr.DataModel, xmperr.NodeAlreadyAChild)
	wantCode(t, st.InsertBefore(mustSimple(t, exNS, "w", ""), simple), xmperr.DataModel, xmperr.NoSuchNodeExists)
	wantCode(t, st.Remove(simple), xmperr.DataModel, xmperr.NoSuchNodeExists)
	wantCode(t, st.Append(NewMetadata().Node), xmperr.General, xmperr.ParametersNotAsExpected)

	inner := mustStruct(t, exNS, "inner")
	st.Append(inner)
	wantCode(t, inner.Append(st), xmperr.DataModel, xmperr.NodeAlreadyAChild)
	if st.Parent() != nil {
		t.Error("cycle attempt left a parent")
	}
}

func TestArrayPositions(t *testing.T) {
	arr := mustArray(t, exNS, "seq", Ordered, false)
	for _, v := range []string{"b", "d"} {
		arr.Append(mustSimple(t, exNS, "i", v))
	}
	if err := arr.InsertAt(1, mustSimple(t, exNS, "i", "a")); err != nil {
		t.Fatal(err)
	}
	if err := arr.InsertAt(3, mustSimple(t, exNS, "i", "c")); err != nil {
		t.Fatal(err)
	}
	if err := arr.InsertAt(5, mustSimple(t, exNS, "i", "e")); err != nil {
		t.Fatal(err)
	}
	wantCode(t, arr.InsertAt(7, mustSimple(t, exNS, "i", "z")), xmperr.General, xmperr.IndexOutOfBounds)
	values := func() []string {
		var res []string
		for _, c := range arr.Children() {
			res = append(res, c.Value())
		}
		return res
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, values()); diff != "" {
		t.Error(diff)
	}
	old, err := arr.ReplaceAt(2, mustSimple(t, exNS, "i", "B"))
	if err != nil || old.Value() != "b" {
		t.Fatalf("replace: %v", err)
	}
	if _, err := arr.RemoveAt(5); err != nil {
		t.Fatal(err)
	}
	_, err = arr.RemoveAt(5)
	wantCode(t, err, xmperr.General, xmperr.IndexOutOfBounds)
	if diff := cmp.Diff([]string{"a", "B", "c", "d"}, values()); diff != "" {
		t.Error(diff)
	}
}

func TestIterator(t *testing.T) {
	arr := mustArray(t, exNS, "seq", Ordered, false)
	it, err := arr.Iterate()
	if err != nil {
		t.Fatal(err)
	}
	if it.HasNext() || it.Next() {
		t.Error("empty iterator advanced")
	}
	_, err = it.Node()
	wantCode(t, err, xmperr.DataModel, xmperr.EmptyIterator)

	for _, v := range []string{"a", "b"} {
		arr.Append(mustSimple(t, exNS, "i", v))
	}
	// appending invalidated the iterator
	if it.Next() {
		t.Error("iterator survived a mutation")
	}
	wantCode(t, it.Err(), xmperr.DataModel, xmperr.BadIterPosition)

	it.Reset()
	if it.Err() != nil {
		t.Fatal(it.Err())
	}
	_, err = it.Node()
	wantCode(t, err, xmperr.DataModel, xmperr.BadIterPosition)
	var got []string
	for it.Next() {
		n, err := it.Node()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, n.Value())
		// value changes do not invalidate
		n.SetValue(n.Value() + "!")
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Error(diff)
	}
	_, err = it.Node()
	wantCode(t, err, xmperr.DataModel, xmperr.BadIterPosition)

	it.Reset()
	it.Next()
	arr.RemoveAt(1)
	_, err = it.Node()
	wantCode(t, err, xmperr.DataModel, xmperr.BadIterPosition)

	_, err = mustSimple(t, exNS, "v", "").Iterate()
	wantCode(t, err, xmperr.DataModel, xmperr.DifferentNodeTypePresent)
}

func TestOwnership(t *testing.T) {
	md := NewMetadata()
	kept := mustSimple(t, exNS, "kept", "k")
	dropped := mustSimple(t, exNS, "dropped", "d")
	md.Append(kept)
	md.Append(dropped)
	if err := kept.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := md.Release(); err != nil {
		t.Fatal(err)
	}
	if md.Alive() || dropped.Alive() {
		t.Error("released tree still alive")
	}
	if !kept.Alive() || kept.Parent() != nil {
		t.Error("acquired child should survive detached")
	}
	if kept.RefCount() != 1 {
		t.Errorf("refcount %d", kept.RefCount())
	}
	wantCode(t, md.Release(), xmperr.General, xmperr.LogicalError)
	_, err := dropped.AsInterface(IDNode, 1)
	wantCode(t, err, xmperr.General, xmperr.LogicalError)

	// releasing an attached child detaches it
	st := mustStruct(t, exNS, "s")
	c := mustSimple(t, exNS, "c", "")
	st.Append(c)
	c.Release()
	if st.Len() != 0 {
		t.Error("destroyed child still attached")
	}
}

func TestNamespaceRemoval(t *testing.T) {
	md := NewMetadata()
	md.RegisterNamespace(exNS, "ex")
	title := mustSimple(t, exNS, "title", "Hello")
	md.Append(title)
	wantCode(t, md.Prefixes().RemoveNamespace(exNS), xmperr.DataModel, xmperr.NodeAlreadyAChild)
	if _, err := md.RemoveNamed(exNS, "title"); err != nil {
		t.Fatal(err)
	}
	if err := md.Prefixes().RemoveNamespace(exNS); err != nil {
		t.Fatal(err)
	}
	if md.Prefixes().HasNamespace(exNS) {
		t.Error("namespace still mapped")
	}
}

func TestAutoRegister(t *testing.T) {
	md := NewMetadata()
	st := mustStruct(t, nsmap.NSDC, "info")
	st.Append(mustSimple(t, "http://other.example/", "x", ""))
	if err := md.Append(st); err != nil {
		t.Fatal(err)
	}
	if p, err := md.Prefixes().Prefix(nsmap.NSDC); err != nil || p != "dc" {
		t.Errorf("dc prefix %q %v", p, err)
	}
	if p, err := md.Prefixes().Prefix("http://other.example/"); err != nil || p != "ns" {
		t.Errorf("generated prefix %q %v", p, err)
	}

	md = NewMetadata()
	if err := md.DisableFeature(FeatureAutoRegisterNamespaces); err != nil {
		t.Fatal(err)
	}
	wantCode(t, md.Append(mustSimple(t, exNS, "x", "")), xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing)
	if md.Len() != 0 || md.Prefixes().HasNamespace(exNS) {
		t.Error("attached or registered with the feature off")
	}
	if _, err := md.RegisterNamespace(exNS, "ex"); err != nil {
		t.Fatal(err)
	}
	arr := mustArray(t, exNS, "list", Ordered, false)
	if err := md.Append(arr); err != nil {
		t.Fatal(err)
	}
	item := mustSimple(t, "http://item.example/", "ignored", "a")
	if err := arr.Append(item); err != nil {
		t.Fatalf("item namespace is the array's: %v", err)
	}
	wantCode(t, item.AddQualifier(mustSimple(t, nsmap.NSXML, "lang", "en")), xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing)
	st = mustStruct(t, exNS, "info")
	st.Append(mustSimple(t, "http://other.example/", "x", ""))
	wantCode(t, md.Append(st), xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing)
	if st.Parent() != nil || md.Len() != 1 {
		t.Error("failed attach changed the tree")
	}
	old := md.Children()[0]
	_, err := md.ReplaceAt(1, mustSimple(t, "http://other.example/", "y", ""))
	wantCode(t, err, xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing)
	if md.Children()[0] != old {
		t.Error("failed replace changed the tree")
	}
	wantCode(t, md.EnableFeature("noSuchFeature"), xmperr.Configuration, xmperr.KeyNotSupported)
}

func TestQualifiers(t *testing.T) {
	md := NewMetadata()
	n := mustSimple(t, exNS, "v", "x")
	lang := mustSimple(t, nsmap.NSXML, "lang", "en")
	if err := n.AddQualifier(lang); err != nil {
		t.Fatal(err)
	}
	wantCode(t, n.AddQualifier(mustSimple(t, nsmap.NSXML, "lang", "fr")), xmperr.DataModel, xmperr.NodeAlreadyExists)
	wantCode(t, n.AddQualifier(lang), xmperr.DataModel, xmperr.NodeAlreadyAChild)
	wantCode(t, md.AddQualifier(mustSimple(t, exNS, "q", "")), xmperr.DataModel, xmperr.DifferentNodeTypePresent)
	if !lang.IsQualifier() || lang.IsArrayItem() {
		t.Error("qualifier flags")
	}
	q, err := n.RemoveQualifier(nsmap.NSXML, "lang")
	if err != nil || q != lang || lang.Parent() != nil {
		t.Fatalf("remove qualifier: %v", err)
	}
	_, err = n.Qualifier(nsmap.NSXML, "lang")
	wantCode(t, err, xmperr.DataModel, xmperr.NoSuchNodeExists)
}

func TestCloneEqual(t *testing.T) {
	md := buildDoc(t)
	cp := md.Clone()
	if !Equal(md.Node, cp.Node) {
		t.Fatal("clone differs")
	}
	if diff := cmp.Diff(md.Prefixes().Entries(), cp.Prefixes().Entries()); diff != "" {
		t.Error(diff)
	}
	n, _ := ResolveString(cp.Node, "ex:alt[2]")
	n.SetValue("changed")
	if Equal(md.Node, cp.Node) {
		t.Error("clone shares nodes")
	}

	st := mustStruct(t, exNS, "s")
	st.Append(mustSimple(t, exNS, "empty", ""))
	q := mustSimple(t, exNS, "qualified", "")
	q.AddQualifier(mustSimple(t, nsmap.NSXML, "lang", "en"))
	st.Append(q)
	st.Append(mustSimple(t, exNS, "full", "x"))
	tests := []struct {
		name                     string
		ignoreEmpty, ignoreQuals bool
		want                     []string
	}{
		{"all", false, false, []string{"empty", "qualified", "full"}},
		{"ignore empty", true, false, []string{"qualified", "full"}},
		{"ignore qualified", false, true, []string{"full"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := st.CloneWith(tc.ignoreEmpty, tc.ignoreQuals)
			var got []string
			for _, x := range c.Children() {
				got = append(got, x.Name())
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error(diff)
			}
		})
	}
	if mustStruct(t, exNS, "e").CloneWith(true, false) != nil {
		t.Error("empty structure not pruned")
	}
}

func TestEqualOrder(t *testing.T) {
	mk := func(names ...string) *Node {
		st := mustStruct(t, exNS, "s")
		for _, n := range names {
			st.Append(mustSimple(t, exNS, n, n))
		}
		return st
	}
	if !Equal(mk("a", "b"), mk("b", "a")) {
		t.Error("structure equality depends on order")
	}
	mkArr := func(vs ...string) *Node {
		arr := mustArray(t, exNS, "a", Ordered, false)
		for _, v := range vs {
			arr.Append(mustSimple(t, exNS, "i", v))
		}
		return arr
	}
	if Equal(mkArr("a", "b"), mkArr("b", "a")) {
		t.Error("array equality ignores order")
	}
}

func TestChanges(t *testing.T) {
	md := buildDoc(t)
	md.AcknowledgeChanges()
	if md.HasChanged() {
		t.Fatal("changes survived acknowledgement")
	}
	n, _ := ResolveString(md.Node, "ex:info/ex:name")
	n.SetValue("m")
	info, _ := ResolveString(md.Node, "ex:info")
	if !n.HasChanged() || !info.HasChanged() || !md.HasChanged() {
		t.Error("change did not propagate")
	}
	title, _ := ResolveString(md.Node, "ex:title")
	if title.HasChanged() {
		t.Error("sibling marked changed")
	}
}

func TestConcurrentTypeHint(t *testing.T) {
	arr := mustArray(t, exNS, "nums", Ordered, true)
	var items []*Node
	for _, v := range []string{"1", "2"} {
		n := mustSimple(t, exNS, "n", v)
		if err := n.SetTypeHint("int"); err != nil {
			t.Fatal(err)
		}
		if err := arr.Append(n); err != nil {
			t.Fatal(err)
		}
		items = append(items, n)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 2*len(items))
	for _, n := range items {
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					if err := n.SetTypeHint("int"); err != nil {
						errs <- err
						return
					}
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	wantCode(t, items[0].SetTypeHint("text"), xmperr.DataModel, xmperr.ArrayItemTypeDifferent)
}

func TestSingleThreaded(t *testing.T) {
	SetMultiThreaded(false)
	defer SetMultiThreaded(true)
	if IsMultiThreaded() {
		t.Fatal("still multithreaded")
	}
	st := mustStruct(t, exNS, "s")
	if !st.mu.off {
		t.Error("lock not disabled")
	}
	if err := st.Append(mustSimple(t, exNS, "a", "")); err != nil {
		t.Fatal(err)
	}
}

func TestCapabilities(t *testing.T) {
	md := NewMetadata()
	v, err := md.AsInterface(IDMetadata, 1)
	if err != nil || v != md {
		t.Fatalf("metadata view: %v", err)
	}
	v, err = md.AsInterface(IDStructureNode, 1)
	if err != nil || v != md.Node {
		t.Fatalf("structure view: %v", err)
	}
	_, err = md.AsInterface(IDMetadata, 2)
	wantCode(t, err, xmperr.General, xmperr.InterfaceUnavailable)
	s := mustSimple(t, exNS, "s", "")
	_, err = s.AsInterface(IDArrayNode, 1)
	wantCode(t, err, xmperr.General, xmperr.InterfaceUnavailable)
}
