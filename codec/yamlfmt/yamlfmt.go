// Package yamlfmt reads and writes documents as YAML, using the same
// wire form as package jsonfmt.
package yamlfmt

import (
	"bytes"
	"errors"

	"github.com/goccy/go-yaml"

	"github.com/signadot/xmpdom/codec/wire"
	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

// ID names the format in the plugin registry.
const ID = "yaml"

// Options.
const (
	// DisallowUnknownFields makes keys outside the wire form an error.
	DisallowUnknownFields = "disallowUnknownFields"
	// Indent is the number of spaces per nesting level.
	Indent = "indent"
)

// Register adds the YAML parser and serializer to the plugin registry.
func Register() error {
	if err := plugin.RegisterParser(ID, NewParser); err != nil {
		return err
	}
	return plugin.RegisterSerializer(ID, NewSerializer)
}

type Parser struct {
	cfg *config.Store
}

func NewParser() plugin.Parser {
	return &Parser{cfg: config.New(
		config.CaseInsensitive(),
		config.Strict(true),
		config.AllowKey(DisallowUnknownFields, config.BoolKind),
		config.Defaults(map[string]config.Value{
			DisallowUnknownFields: config.Bool(false),
		}),
	)}
}

func (p *Parser) Config() *config.Store {
	return p.cfg
}

// Parse decodes a YAML document. Blank input is an empty document.
func (p *Parser) Parse(data []byte) (*dom.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dom.NewMetadata().Node, nil
	}
	var opts []yaml.DecodeOption
	if p.cfg.BoolOr(DisallowUnknownFields, false) {
		opts = append(opts, yaml.DisallowUnknownField())
	}
	doc := &wire.Document{}
	if err := yaml.UnmarshalWithOptions(data, doc, opts...); err != nil {
		e := xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "yaml: %v", err)
		e.Cause = err
		return nil, e
	}
	md, err := wire.Decode(doc)
	if err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("yaml: %d top level properties\n", md.Len())
	}
	return md.Node, nil
}

type Serializer struct {
	cfg *config.Store
}

func NewSerializer() plugin.Serializer {
	return &Serializer{cfg: config.New(
		config.CaseInsensitive(),
		config.Strict(true),
		config.AllowKey(Indent, config.IntKind),
		config.Validate(func(_ string, v config.Value) error {
			if v.Int() < 1 || v.Int() > 8 {
				return errIndent
			}
			return nil
		}),
		config.Defaults(map[string]config.Value{
			Indent: config.Int(2),
		}),
	)}
}

var errIndent = errors.New("indent must be between 1 and 8")

func (s *Serializer) Config() *config.Store {
	return s.cfg
}

func (s *Serializer) Serialize(md *dom.Metadata, m *nsmap.Map) ([]byte, error) {
	doc, err := wire.Encode(md, m)
	if err != nil {
		return nil, err
	}
	d, err := yaml.MarshalWithOptions(doc, yaml.Indent(int(s.cfg.IntOr(Indent, 2))))
	if err != nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.InternalFailure, "yaml: %v", err)
	}
	return d, nil
}
