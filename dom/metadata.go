package dom

import (
	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/handle"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Features of a Metadata.
const (
	// FeatureAutoRegisterNamespaces makes attaching a subtree register
	// any namespace it uses which has no prefix yet. On by default.
	FeatureAutoRegisterNamespaces = "autoRegisterNamespaces"
)

// Metadata is the root structure of a document. It owns the document's
// prefix map and feature configuration.
type Metadata struct {
	*Node

	prefixes *nsmap.Map
	features *config.Store
	about    string
}

// NewMetadata returns an empty document.
func NewMetadata() *Metadata {
	root, err := NewStructure(nsmap.NSMeta, "xmpmeta")
	if err != nil {
		panic(err)
	}
	md := &Metadata{
		Node:     root,
		prefixes: nsmap.New(),
		features: config.New(
			config.AllowKey(FeatureAutoRegisterNamespaces, config.BoolKind),
			config.Strict(true),
			config.Defaults(map[string]config.Value{
				FeatureAutoRegisterNamespaces: config.Bool(true),
			})),
	}
	root.doc = md
	md.prefixes.SetUsage(md.NamespaceInUse)
	return md
}

// Prefixes returns the document's prefix map.
func (m *Metadata) Prefixes() *nsmap.Map {
	return m.prefixes
}

// Config returns the document feature store.
func (m *Metadata) Config() *config.Store {
	return m.features
}

// RegisterNamespace binds uri in the document's prefix map.
func (m *Metadata) RegisterNamespace(uri, preferred string) (string, error) {
	return m.prefixes.Register(uri, preferred)
}

func (m *Metadata) EnableFeature(key string) error {
	return m.features.Set(key, config.Bool(true))
}

func (m *Metadata) DisableFeature(key string) error {
	return m.features.Set(key, config.Bool(false))
}

// Feature reports whether the boolean feature key is on.
func (m *Metadata) Feature(key string) bool {
	return m.features.BoolOr(key, false)
}

// AboutURI returns the URI of the resource the document describes.
func (m *Metadata) AboutURI() string {
	m.mu.rlock()
	defer m.mu.runlock()
	return m.about
}

func (m *Metadata) SetAboutURI(uri string) {
	m.mu.lock()
	m.about = uri
	m.changed = true
	m.mu.unlock()
}

// NamespaceInUse scans the tree for a node or qualifier in namespace uri.
func (m *Metadata) NamespaceInUse(uri string) bool {
	found := false
	for _, c := range m.Children() {
		Walk(c, func(x *Node) bool {
			if x.Namespace() == uri {
				found = true
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}

// Namespaces returns the distinct namespaces used below the root, in
// document order.
func (m *Metadata) Namespaces() []string {
	seen := map[string]bool{}
	var res []string
	for _, c := range m.Children() {
		Walk(c, func(x *Node) bool {
			ns := x.Namespace()
			if !seen[ns] {
				seen[ns] = true
				res = append(res, ns)
			}
			return true
		})
	}
	return res
}

func (m *Metadata) registerSubtree(c *Node) {
	Walk(c, func(x *Node) bool {
		ns := x.Namespace()
		if m.prefixes.HasNamespace(ns) {
			return true
		}
		prefix := "ns"
		if def := nsmap.Default(); def.HasNamespace(ns) {
			prefix, _ = def.Prefix(ns)
		}
		m.prefixes.Register(ns, prefix)
		return true
	})
}

var metaCaps = structCaps.
	With(handle.Capability{ID: IDMetadata, Version: 1}, handle.Self)

// AsInterface resolves against the metadata capabilities. The node views
// expose the root *Node.
func (m *Metadata) AsInterface(id handle.ID, version int) (any, error) {
	if !m.Alive() {
		return nil, xmperr.Fail(xmperr.General, xmperr.LogicalError, "metadata released")
	}
	if id != IDMetadata {
		return structCaps.Resolve(m.Node, id, version)
	}
	return metaCaps.Resolve(m, id, version)
}

// Clone returns an independent copy of the document.
func (m *Metadata) Clone() *Metadata {
	res := NewMetadata()
	res.prefixes.Merge(m.prefixes)
	for _, k := range m.features.Keys() {
		v, err := m.features.Get(k)
		if err == nil {
			res.features.Set(k, v)
		}
	}
	res.about = m.AboutURI()
	for _, c := range m.Children() {
		if cc := c.Clone(); cc != nil {
			res.Append(cc)
		}
	}
	res.changed = false
	return res
}
