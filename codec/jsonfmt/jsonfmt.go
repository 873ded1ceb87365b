// Package jsonfmt reads and writes documents as JSON.
//
// The document is the wire form of package wire:
//
//	{
//	  "namespaces": {"dc": "http://purl.org/dc/elements/1.1/"},
//	  "properties": {
//	    "dc:title": {"kind": "array", "form": "alternative", "items": [
//	      {"value": "Hello", "qualifiers": {"xml:lang": {"value": "x-default"}}}
//	    ]}
//	  }
//	}
package jsonfmt

import (
	"bytes"
	"encoding/json"

	"github.com/signadot/xmpdom/codec/wire"
	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

// ID names the format in the plugin registry.
const ID = "json"

// Options.
const (
	// DisallowUnknownFields makes members outside the wire form an error.
	DisallowUnknownFields = "disallowUnknownFields"
	// Indent is the per level indentation of the output. Empty means
	// compact output.
	Indent = "indent"
)

// Register adds the JSON parser and serializer to the plugin registry.
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

// Parse decodes a single JSON document. Blank input is an empty document.
func (p *Parser) Parse(data []byte) (*dom.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dom.NewMetadata().Node, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if p.cfg.BoolOr(DisallowUnknownFields, false) {
		dec.DisallowUnknownFields()
	}
	doc := &wire.Document{}
	if err := dec.Decode(doc); err != nil {
		e := xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "json: %v", err)
		e.Cause = err
		return nil, e
	}
	if dec.More() {
		return nil, xmperr.Fail(xmperr.Parser, xmperr.BadXMP, "json: data after document at offset %d", dec.InputOffset())
	}
	md, err := wire.Decode(doc)
	if err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("json: %d top level properties\n", md.Len())
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
		config.AllowKey(Indent, config.StringKind),
		config.Defaults(map[string]config.Value{
			Indent: config.String("  "),
		}),
	)}
}

func (s *Serializer) Config() *config.Store {
	return s.cfg
}

func (s *Serializer) Serialize(md *dom.Metadata, m *nsmap.Map) ([]byte, error) {
	doc, err := wire.Encode(md, m)
	if err != nil {
		return nil, err
	}
	var d []byte
	if indent := s.cfg.StringOr(Indent, ""); indent != "" {
		d, err = json.MarshalIndent(doc, "", indent)
	} else {
		d, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.InternalFailure, "json: %v", err)
	}
	return append(d, '\n'), nil
}
