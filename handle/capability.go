package handle

import (
	"fmt"
	"sort"

	"github.com/signadot/xmpdom/xmperr"
)

// ID names an interface.
type ID string

// Capability is one version of one interface.
type Capability struct {
	ID      ID
	Version int
}

func (c Capability) String() string {
	return fmt.Sprintf("%s/v%d", c.ID, c.Version)
}

// View adapts a concrete object to the type exposed for a capability.
type View func(obj any) any

// Capabilities maps each supported capability of a concrete type to its
// view. It is built once per type and is read only afterwards.
type Capabilities map[Capability]View

// Self is the view exposing the object as is.
func Self(obj any) any { return obj }

// With returns a copy of cs with c added.
func (cs Capabilities) With(c Capability, v View) Capabilities {
	res := make(Capabilities, len(cs)+1)
	for k, x := range cs {
		res[k] = x
	}
	res[c] = v
	return res
}

// Resolve returns obj's view for (id, version). A version that is not
// exactly supported fails even when another version of id is.
func (cs Capabilities) Resolve(obj any, id ID, version int) (any, error) {
	v, ok := cs[Capability{ID: id, Version: version}]
	if !ok {
		e := xmperr.Fail(xmperr.General, xmperr.InterfaceUnavailable,
			"%T does not implement %s/v%d", obj, id, version)
		if vs := cs.Versions(id); len(vs) != 0 {
			e.WithParams(fmt.Sprint(vs))
		}
		return nil, e
	}
	return v(obj), nil
}

// Versions lists the supported versions of id in ascending order.
func (cs Capabilities) Versions(id ID) []int {
	var res []int
	for c := range cs {
		if c.ID == id {
			res = append(res, c.Version)
		}
	}
	sort.Ints(res)
	return res
}

// Supports reports whether (id, version) resolves.
func (cs Capabilities) Supports(id ID, version int) bool {
	_, ok := cs[Capability{ID: id, Version: version}]
	return ok
}

// Object is a reference counted value exposing versioned capabilities.
type Object interface {
	Shared
	AsInterface(id ID, version int) (any, error)
}
