// Package encode writes document trees as an indented text outline.
//
// # Usage
//
//	// Outline a document
//	err := encode.Encode(md.Node, os.Stdout)
//
//	// With colors, starting two levels in
//	err := encode.Encode(node, w, encode.EncodeColors(encode.NewColors()), encode.Depth(2))
//
// The outline is for people: it is registered as the "outline" serializer
// but has no parser.
//
//	dc:title: [alternative]
//	  - "Hello"
//	    @xml:lang: "x-default"
//	xmp:BaseURL: <http://example.com/>
//	xmp:Rating: "3" ^^http://www.w3.org/2001/XMLSchema#integer
//	xmpMM:DerivedFrom: {}
//	  stRef:instanceID: "xmp.iid:1"
package encode
