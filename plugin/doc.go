// Package plugin defines the parser and serializer contracts and the
// process wide registry of their factories.
//
// # Registry
//
// The registry must be readied with Init before use and can be reset with
// Teardown:
//
//	plugin.Init()
//	defer plugin.Teardown()
//	plugin.RegisterParser("rdf", rdfxml.NewParser)
//	p, err := plugin.NewParser("rdf")
//
// # Boundary
//
// Every call into plugin code goes through Parse, ParseInto, Serialize,
// NewParser or NewSerializer, which turn panics into xmperr records:
// ClientThrownExceptionCaught for panics with an error and
// UnknownExceptionCaught for anything else.
//
// # Serializing
//
// Serializers name namespaces with PrefixFor. A namespace with no prefix
// in the working map is reported as UnRegisteredNameSpace with warning
// severity; a notifier which recovers gets a generated prefix instead of
// a failure.
package plugin
