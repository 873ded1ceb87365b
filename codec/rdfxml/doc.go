// Package rdfxml reads and writes the RDF/XML form of XMP.
//
// The parser accepts a full packet, a bare x:xmpmeta element or a bare
// rdf:RDF element. It understands the common XMP subset of RDF: typed
// and untyped rdf:Description, rdf:Bag, rdf:Seq and rdf:Alt arrays,
// rdf:parseType="Resource" with and without rdf:value, rdf:resource and
// rdf:datatype. Other markup is reported as Parser/BadRDF at warning
// severity and skipped if the notifier recovers.
//
// The serializer writes a single rdf:Description holding every top level
// property. Qualifiers other than xml:lang use the rdf:value form.
package rdfxml

import "github.com/signadot/xmpdom/plugin"

// ID names the format in the plugin registry.
const ID = "rdf"

// Register adds the RDF/XML parser and serializer to the plugin
// registry.
func Register() error {
	if err := plugin.RegisterParser(ID, NewParser); err != nil {
		return err
	}
	return plugin.RegisterSerializer(ID, NewSerializer)
}
