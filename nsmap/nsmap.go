package nsmap

import (
	"sort"
	"strconv"
	"sync"

	"github.com/signadot/xmpdom/xmperr"
)

// Entry is one namespace binding.
type Entry struct {
	Prefix    string
	Namespace string
}

// Map is a bidirectional namespace URI to prefix map. Every namespace has
// at most one prefix and every prefix names at most one namespace.
type Map struct {
	mu       sync.RWMutex
	byNS     map[string]string
	byPrefix map[string]string
	inUse    func(uri string) bool
}

func New() *Map {
	return &Map{
		byNS:     map[string]string{},
		byPrefix: map[string]string{},
	}
}

// FromEntries builds a map, binding entries in order with Insert.
func FromEntries(es ...Entry) (*Map, error) {
	m := New()
	for _, e := range es {
		if err := m.Insert(e.Prefix, e.Namespace); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetUsage installs the oracle consulted before a namespace is removed.
func (m *Map) SetUsage(f func(uri string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inUse = f
}

// Register binds uri, preferring preferred as its prefix, and returns the
// prefix actually bound. A uri which is already bound keeps its prefix.
// If preferred names another namespace, the first free prefix among
// preferred1, preferred2, ... is used.
func (m *Map) Register(uri, preferred string) (string, error) {
	if uri == "" {
		return "", xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "empty namespace")
	}
	if !ValidPrefix(preferred) {
		return "", xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "invalid prefix %q", preferred)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byNS[uri]; ok {
		return p, nil
	}
	p := preferred
	for i := 1; ; i++ {
		if _, taken := m.byPrefix[p]; !taken {
			break
		}
		p = preferred + strconv.Itoa(i)
	}
	m.byNS[uri] = p
	m.byPrefix[p] = uri
	return p, nil
}

// Insert binds prefix to uri, dropping any other binding of either.
func (m *Map) Insert(prefix, uri string) error {
	if uri == "" {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "empty namespace")
	}
	if !ValidPrefix(prefix) {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "invalid prefix %q", prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byPrefix[prefix]; ok {
		delete(m.byNS, old)
	}
	if old, ok := m.byNS[uri]; ok {
		delete(m.byPrefix, old)
	}
	m.byNS[uri] = prefix
	m.byPrefix[prefix] = uri
	return nil
}

func (m *Map) Prefix(uri string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byNS[uri]
	if !ok {
		return "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "namespace %q", uri)
	}
	return p, nil
}

func (m *Map) Namespace(prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.byPrefix[prefix]
	if !ok {
		return "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "prefix %q", prefix)
	}
	return ns, nil
}

func (m *Map) HasPrefix(prefix string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byPrefix[prefix]
	return ok
}

func (m *Map) HasNamespace(uri string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byNS[uri]
	return ok
}

// RemoveNamespace drops the binding of uri. It fails if the usage oracle
// reports uri as referenced.
func (m *Map) RemoveNamespace(uri string) error {
	m.mu.Lock()
	p, ok := m.byNS[uri]
	inUse := m.inUse
	m.mu.Unlock()
	if !ok {
		return xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "namespace %q", uri)
	}
	if inUse != nil && inUse(uri) {
		return xmperr.Fail(xmperr.DataModel, xmperr.NodeAlreadyAChild, "namespace %q is in use", uri)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byNS[uri] == p {
		delete(m.byNS, uri)
		delete(m.byPrefix, p)
	}
	return nil
}

// RemovePrefix is RemoveNamespace by prefix.
func (m *Map) RemovePrefix(prefix string) error {
	ns, err := m.Namespace(prefix)
	if err != nil {
		return err
	}
	return m.RemoveNamespace(ns)
}

func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byNS)
}

// Entries returns the bindings sorted by prefix.
func (m *Map) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]Entry, 0, len(m.byPrefix))
	for p, ns := range m.byPrefix {
		res = append(res, Entry{Prefix: p, Namespace: ns})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Prefix < res[j].Prefix })
	return res
}

// Clone copies the bindings. The usage oracle is not copied.
func (m *Map) Clone() *Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := New()
	for ns, p := range m.byNS {
		res.byNS[ns] = p
		res.byPrefix[p] = ns
	}
	return res
}

// Merge adds the bindings of o whose prefix and namespace are both
// unbound in m. It returns the number added.
func (m *Map) Merge(o *Map) int {
	if o == nil || o == m {
		return 0
	}
	es := o.Entries()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range es {
		if _, ok := m.byNS[e.Namespace]; ok {
			continue
		}
		if _, ok := m.byPrefix[e.Prefix]; ok {
			continue
		}
		m.byNS[e.Namespace] = e.Prefix
		m.byPrefix[e.Prefix] = e.Namespace
		n++
	}
	return n
}

// Adopt is Merge, except that a namespace of o whose prefix is taken in m
// is bound under a generated prefix instead of being skipped. It returns
// the number of namespaces added.
func (m *Map) Adopt(o *Map) int {
	if o == nil || o == m {
		return 0
	}
	n := m.Merge(o)
	for _, e := range o.Entries() {
		if m.HasNamespace(e.Namespace) {
			continue
		}
		if _, err := m.Register(e.Namespace, e.Prefix); err == nil {
			n++
		}
	}
	return n
}
