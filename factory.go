package xmpdom

import (
	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/handle"
	"github.com/signadot/xmpdom/mpath"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/xmperr"
)

// Object ids Create knows besides the dom ones.
const (
	IDPrefixMap handle.ID = "nsmap"
	IDPath      handle.ID = "path"
	IDConfig    handle.ID = "config"
	IDError     handle.ID = "error"
)

// PrefixMap is a reference counted *nsmap.Map.
type PrefixMap struct {
	handle.Ref
	*nsmap.Map
}

func (p *PrefixMap) AsInterface(id handle.ID, version int) (any, error) {
	return mapCaps.Resolve(p, id, version)
}

// Path is a reference counted *mpath.Path.
type Path struct {
	handle.Ref
	*mpath.Path
}

func (p *Path) AsInterface(id handle.ID, version int) (any, error) {
	return pathCaps.Resolve(p, id, version)
}

// Config is a reference counted *config.Store.
type Config struct {
	handle.Ref
	*config.Store
}

func (c *Config) AsInterface(id handle.ID, version int) (any, error) {
	return configCaps.Resolve(c, id, version)
}

// ErrorRecord is a reference counted *xmperr.Error.
type ErrorRecord struct {
	handle.Ref
	Record *xmperr.Error
}

func (e *ErrorRecord) AsInterface(id handle.ID, version int) (any, error) {
	return errorCaps.Resolve(e, id, version)
}

var (
	mapCaps    = handle.Capabilities{{ID: IDPrefixMap, Version: 1}: handle.Self}
	pathCaps   = handle.Capabilities{{ID: IDPath, Version: 1}: handle.Self}
	configCaps = handle.Capabilities{{ID: IDConfig, Version: 1}: handle.Self}
	errorCaps  = handle.Capabilities{{ID: IDError, Version: 1}: handle.Self}
)

type builder func(args []any) (handle.Object, error)

var builders = map[handle.ID]builder{
	dom.IDMetadata:      newMetadata,
	dom.IDStructureNode: newStructure,
	dom.IDArrayNode:     newArray,
	dom.IDSimpleNode:    newSimple,
	IDPrefixMap:         newPrefixMap,
	IDPath:              newPath,
	IDConfig:            newConfig,
	IDError:             newError,
}

// Create builds the object named by id with the interface version
// requested. Only version 1 exists for every id. The arguments are
//
//	metadata        none
//	structure-node  namespace, name string
//	array-node      namespace, name string, form dom.ArrayForm, optionally homogeneous bool
//	simple-node     namespace, name, value string
//	nsmap           optionally nsmap.Entry values
//	path            optionally mpath.Segment values
//	config          optionally config.Option values
//	error           xmperr.Domain, xmperr.Code, message string
//
// On failure Create returns a nil Object.
func Create(id handle.ID, version int, args ...any) (handle.Object, error) {
	b, ok := builders[id]
	if !ok {
		return nil, xmperr.Fail(xmperr.General, xmperr.InterfaceUnavailable, "no object %q", id)
	}
	if version != 1 {
		return nil, xmperr.Fail(xmperr.General, xmperr.VersionUnavailable, "%s/v%d", id, version).WithParams("1")
	}
	obj, err := b(args)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func badArgs(what string, args []any) error {
	return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "%s: arguments %v", what, args)
}

// stringArgs unpacks the n leading string arguments.
func stringArgs(what string, args []any, n int) ([]string, error) {
	if len(args) < n {
		return nil, badArgs(what, args)
	}
	res := make([]string, n)
	for i := range n {
		s, ok := args[i].(string)
		if !ok {
			return nil, badArgs(what, args)
		}
		res[i] = s
	}
	return res, nil
}

func newMetadata(args []any) (handle.Object, error) {
	if len(args) != 0 {
		return nil, badArgs("metadata", args)
	}
	return dom.NewMetadata(), nil
}

func newStructure(args []any) (handle.Object, error) {
	if len(args) != 2 {
		return nil, badArgs("structure-node", args)
	}
	ss, err := stringArgs("structure-node", args, 2)
	if err != nil {
		return nil, err
	}
	return dom.NewStructure(ss[0], ss[1])
}

func newArray(args []any) (handle.Object, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, badArgs("array-node", args)
	}
	ss, err := stringArgs("array-node", args, 2)
	if err != nil {
		return nil, err
	}
	form, ok := args[2].(dom.ArrayForm)
	if !ok {
		return nil, badArgs("array-node", args)
	}
	homogeneous := false
	if len(args) == 4 {
		if homogeneous, ok = args[3].(bool); !ok {
			return nil, badArgs("array-node", args)
		}
	}
	return dom.NewArray(ss[0], ss[1], form, homogeneous)
}

func newSimple(args []any) (handle.Object, error) {
	if len(args) != 3 {
		return nil, badArgs("simple-node", args)
	}
	ss, err := stringArgs("simple-node", args, 3)
	if err != nil {
		return nil, err
	}
	return dom.NewSimple(ss[0], ss[1], ss[2])
}

func newPrefixMap(args []any) (handle.Object, error) {
	es := make([]nsmap.Entry, len(args))
	for i, a := range args {
		e, ok := a.(nsmap.Entry)
		if !ok {
			return nil, badArgs("nsmap", args)
		}
		es[i] = e
	}
	m, err := nsmap.FromEntries(es...)
	if err != nil {
		return nil, err
	}
	return &PrefixMap{Map: m}, nil
}

func newPath(args []any) (handle.Object, error) {
	segs := make([]mpath.Segment, len(args))
	for i, a := range args {
		s, ok := a.(mpath.Segment)
		if !ok {
			return nil, badArgs("path", args)
		}
		segs[i] = s
	}
	p := mpath.New(segs...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Path{Path: p}, nil
}

func newConfig(args []any) (handle.Object, error) {
	opts := make([]config.Option, len(args))
	for i, a := range args {
		o, ok := a.(config.Option)
		if !ok {
			return nil, badArgs("config", args)
		}
		opts[i] = o
	}
	return &Config{Store: config.New(opts...)}, nil
}

func newError(args []any) (handle.Object, error) {
	if len(args) != 3 {
		return nil, badArgs("error", args)
	}
	d, ok1 := args[0].(xmperr.Domain)
	c, ok2 := args[1].(xmperr.Code)
	msg, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 || !xmperr.Valid(d, c) {
		return nil, badArgs("error", args)
	}
	return &ErrorRecord{Record: xmperr.New(d, c, xmperr.SeverityOperationFatal, "%s", msg)}, nil
}

// ParsePath parses the path mini-syntax, resolving prefixes with m.
func ParsePath(s string, m mpath.Namespaces) (*mpath.Path, error) {
	return mpath.Parse(s, m)
}
