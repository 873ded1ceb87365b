package encode

import "github.com/signadot/xmpdom/nsmap"

type EncodeOption func(*EncState)

// Depth sets the indentation level of the first line.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

// Indent sets the number of spaces per level.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeQualifiers controls whether qualifiers are written. They are by
// default.
func EncodeQualifiers(v bool) EncodeOption {
	return func(es *EncState) { es.qualifiers = v }
}

// EncodePrefixes names namespaces with m instead of the prefixes of the
// node's document.
func EncodePrefixes(m *nsmap.Map) EncodeOption {
	return func(es *EncState) { es.prefixes = m }
}
