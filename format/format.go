package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	RDFFormat Format = iota
	JSONFormat
	YAMLFormat
	OutlineFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"r":       RDFFormat,
		"rdf":     RDFFormat,
		"xml":     RDFFormat,
		"j":       JSONFormat,
		"json":    JSONFormat,
		"y":       YAMLFormat,
		"yaml":    YAMLFormat,
		"o":       OutlineFormat,
		"outline": OutlineFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

// ID returns the plugin registry id of f.
func (f Format) ID() string {
	return f.String()
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case RDFFormat:
		return []byte("rdf"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case OutlineFormat:
		return []byte("outline"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsRDF() bool     { return f == RDFFormat }
func (f Format) IsJSON() bool    { return f == JSONFormat }
func (f Format) IsYAML() bool    { return f == YAMLFormat }
func (f Format) IsOutline() bool { return f == OutlineFormat }

// CanParse reports whether documents in f can be read back. The outline
// encoding is output only.
func (f Format) CanParse() bool {
	return f != OutlineFormat
}

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case RDFFormat:
		return ".xmp"
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	case OutlineFormat:
		return ".txt"
	default:
		return ""
	}
}

// FromSuffix guesses the format of a file name.
func FromSuffix(name string) (Format, bool) {
	for _, f := range AllFormats() {
		if s := f.Suffix(); len(name) > len(s) && name[len(name)-len(s):] == s {
			return f, true
		}
	}
	if len(name) > 4 && name[len(name)-4:] == ".xml" {
		return RDFFormat, true
	}
	if len(name) > 4 && name[len(name)-4:] == ".yml" {
		return YAMLFormat, true
	}
	return 0, false
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{RDFFormat, JSONFormat, YAMLFormat, OutlineFormat}
}
