package eval

import (
	"strings"

	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// prefixes looks names up in each map in turn.
type prefixes []*nsmap.Map

func (ps prefixes) Prefix(uri string) (string, error) {
	for _, m := range ps {
		if m.HasNamespace(uri) {
			return m.Prefix(uri)
		}
	}
	return "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "namespace %q", uri)
}

func (ps prefixes) Namespace(prefix string) (string, error) {
	for _, m := range ps {
		if m.HasPrefix(prefix) {
			return m.Namespace(prefix)
		}
	}
	return "", xmperr.Fail(xmperr.DataModel, xmperr.NameSpacePrefixMapEntryMissing, "prefix %q", prefix)
}

// splitName splits prefix:name and resolves the prefix.
func splitName(m prefixes, qname string) (string, string, error) {
	p, local, ok := strings.Cut(qname, ":")
	if !ok || p == "" || local == "" {
		return "", "", xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "%q is not prefix:name", qname)
	}
	ns, err := m.Namespace(p)
	if err != nil {
		return "", "", err
	}
	return ns, local, nil
}
