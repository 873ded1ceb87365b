package jsonfmt

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

// Patch applies the RFC 6902 patch in patch to the JSON form of md and
// returns the resulting document. md is left untouched.
//
// Paths in the patch address the JSON form, e.g.
// "/properties/dc:title/items/0/value".
func Patch(md *dom.Metadata, patch []byte) (*dom.Metadata, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		e := xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "json patch: %v", err)
		e.Cause = err
		return nil, e
	}
	d, err := plugin.Serialize(NewSerializer(), md)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		e := xmperr.Fail(xmperr.DataModel, xmperr.NoSuchNodeExists, "json patch: %v", err)
		e.Cause = err
		return nil, e
	}
	if debug.Parse() {
		debug.Logf("json patch: %d ops\n", len(ops))
	}
	return plugin.Parse(NewParser(), out)
}
