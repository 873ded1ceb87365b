// Package format names the document encodings known to the command line
// tool and the plugin registry.
//
// # Usage
//
//	f, err := format.ParseFormat("j")
//	p, err := plugin.NewParser(f.ID())
//
// # Related Packages
//
//   - github.com/signadot/xmpdom/plugin - parser and serializer registry
//   - github.com/signadot/xmpdom/encode - the outline encoding
package format
