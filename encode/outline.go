package encode

import (
	"bytes"
	"fmt"

	"github.com/signadot/xmpdom/config"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
	"github.com/signadot/xmpdom/plugin"
)

// ID names the outline serializer in the plugin registry.
const ID = "outline"

// Serializer options.
const (
	OptIndent     = "indent"
	OptQualifiers = "qualifiers"
	OptColor      = "color"
)

// Register adds the outline serializer to the plugin registry.
func Register() error {
	return plugin.RegisterSerializer(ID, NewSerializer)
}

type Serializer struct {
	cfg *config.Store
}

func NewSerializer() plugin.Serializer {
	return &Serializer{cfg: config.New(
		config.CaseInsensitive(),
		config.Strict(true),
		config.AllowKey(OptIndent, config.IntKind),
		config.AllowKey(OptQualifiers, config.BoolKind),
		config.AllowKey(OptColor, config.BoolKind),
		config.Validate(func(key string, v config.Value) error {
			if key == OptIndent && v.Int() < 0 {
				return fmt.Errorf("negative indent %d", v.Int())
			}
			return nil
		}),
		config.Defaults(map[string]config.Value{
			OptIndent:     config.Int(2),
			OptQualifiers: config.Bool(true),
			OptColor:      config.Bool(false),
		}),
	)}
}

func (s *Serializer) Config() *config.Store {
	return s.cfg
}

// Serialize writes the outline of md. A non empty about URI is written
// first as a comment line.
func (s *Serializer) Serialize(md *dom.Metadata, m *nsmap.Map) ([]byte, error) {
	for _, ns := range md.Namespaces() {
		if _, err := plugin.PrefixFor(m, ns); err != nil {
			return nil, err
		}
	}
	opts := []EncodeOption{
		EncodePrefixes(m),
		Indent(int(s.cfg.IntOr(OptIndent, 2))),
		EncodeQualifiers(s.cfg.BoolOr(OptQualifiers, true)),
	}
	var colors *Colors
	if s.cfg.BoolOr(OptColor, false) {
		colors = NewColors()
		opts = append(opts, EncodeColors(colors))
	}
	buf := &bytes.Buffer{}
	if about := md.AboutURI(); about != "" {
		line := "# about " + about
		if colors != nil {
			line = colors.Color(dom.NoKind, CommentColor, line)
		}
		buf.WriteString(line + "\n")
	}
	if err := Encode(md.Node, buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
