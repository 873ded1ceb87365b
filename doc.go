// Package xmpdom is the entry point of the metadata document model.
//
// Initialize readies the format registry with the built in parsers and
// serializers; Create builds any core object by capability id and
// version. The node API itself lives in package dom.
//
// # Usage
//
//	if err := xmpdom.Initialize(); err != nil {
//		return err
//	}
//	defer xmpdom.Terminate()
//	obj, err := xmpdom.Create(dom.IDSimpleNode, 1, "http://ns.example/", "title", "Hello")
//
// # Related Packages
//
//   - github.com/signadot/xmpdom/dom - nodes and documents
//   - github.com/signadot/xmpdom/plugin - parser and serializer registry
//   - github.com/signadot/xmpdom/xmperr - error records and the notifier
package xmpdom
