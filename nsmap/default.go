package nsmap

import "sync"

// Well known namespaces.
const (
	NSXML       = "http://www.w3.org/XML/1998/namespace"
	NSRDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSMeta      = "adobe:ns:meta/"
	NSDC        = "http://purl.org/dc/elements/1.1/"
	NSXMP       = "http://ns.adobe.com/xap/1.0/"
	NSXMPRights = "http://ns.adobe.com/xap/1.0/rights/"
	NSXMPMM     = "http://ns.adobe.com/xap/1.0/mm/"
	NSStRef     = "http://ns.adobe.com/xap/1.0/sType/ResourceRef#"
	NSStEvt     = "http://ns.adobe.com/xap/1.0/sType/ResourceEvent#"
	NSTIFF      = "http://ns.adobe.com/tiff/1.0/"
	NSEXIF      = "http://ns.adobe.com/exif/1.0/"
	NSPhotoshop = "http://ns.adobe.com/photoshop/1.0/"
	NSPDF       = "http://ns.adobe.com/pdf/1.3/"
	NSXMPIdQ    = "http://ns.adobe.com/xmp/Identifier/qual/1.0/"
)

var wellKnown = []Entry{
	{"xml", NSXML},
	{"rdf", NSRDF},
	{"x", NSMeta},
	{"dc", NSDC},
	{"xmp", NSXMP},
	{"xmpRights", NSXMPRights},
	{"xmpMM", NSXMPMM},
	{"stRef", NSStRef},
	{"stEvt", NSStEvt},
	{"tiff", NSTIFF},
	{"exif", NSEXIF},
	{"photoshop", NSPhotoshop},
	{"pdf", NSPDF},
	{"xmpidq", NSXMPIdQ},
}

var (
	defaultOnce sync.Once
	defaultMap  *Map
)

// Default returns the process wide map of well known namespaces. Callers
// may register further namespaces in it.
func Default() *Map {
	defaultOnce.Do(func() {
		m, err := FromEntries(wellKnown...)
		if err != nil {
			panic(err)
		}
		defaultMap = m
	})
	return defaultMap
}

// WellKnown returns the bindings Default starts with.
func WellKnown() []Entry {
	res := make([]Entry, len(wellKnown))
	copy(res, wellKnown)
	return res
}
