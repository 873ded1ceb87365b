package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signadot/xmpdom/debug"
	"github.com/signadot/xmpdom/xmperr"
)

var (
	mu          sync.RWMutex
	initialized bool
	parsers     map[string]ParserFactory
	serializers map[string]SerializerFactory
)

var ErrExists = errors.New("format exists")

// Init readies the registry. Calling Init on a ready registry is a no-op.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return
	}
	parsers = map[string]ParserFactory{}
	serializers = map[string]SerializerFactory{}
	initialized = true
	if debug.Registry() {
		debug.Logf("registry initialized\n")
	}
}

// Teardown drops every registration and returns the registry to the
// uninitialized state.
func Teardown() {
	mu.Lock()
	defer mu.Unlock()
	parsers = nil
	serializers = nil
	initialized = false
	if debug.Registry() {
		debug.Logf("registry torn down\n")
	}
}

// Initialized reports whether Init was called since the last Teardown.
func Initialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return initialized
}

func notInitialized() error {
	return xmperr.Fail(xmperr.General, xmperr.LogicalError, "plugin registry is not initialized")
}

func RegisterParser(id string, f ParserFactory) error {
	if id == "" || f == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "parser %q", id)
	}
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return notInitialized()
	}
	if _, present := parsers[id]; present {
		return fmt.Errorf("parser %s: %w", id, ErrExists)
	}
	parsers[id] = f
	if debug.Registry() {
		debug.Logf("registered parser %s\n", id)
	}
	return nil
}

func RegisterSerializer(id string, f SerializerFactory) error {
	if id == "" || f == nil {
		return xmperr.Fail(xmperr.General, xmperr.ParametersNotAsExpected, "serializer %q", id)
	}
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return notInitialized()
	}
	if _, present := serializers[id]; present {
		return fmt.Errorf("serializer %s: %w", id, ErrExists)
	}
	serializers[id] = f
	if debug.Registry() {
		debug.Logf("registered serializer %s\n", id)
	}
	return nil
}

// LookupParser returns the parser factory registered under id. A lookup
// in an uninitialized registry is reported to the notifier as a
// LogicalError and finds nothing.
func LookupParser(id string) (ParserFactory, bool) {
	mu.RLock()
	f, ok := parsers[id]
	ready := initialized
	mu.RUnlock()
	if !ready {
		notInitialized()
		return nil, false
	}
	return f, ok
}

// LookupSerializer is LookupParser for serializers.
func LookupSerializer(id string) (SerializerFactory, bool) {
	mu.RLock()
	f, ok := serializers[id]
	ready := initialized
	mu.RUnlock()
	if !ready {
		notInitialized()
		return nil, false
	}
	return f, ok
}

// Unregister removes the parser and serializer registered under id.
func Unregister(id string) error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return notInitialized()
	}
	_, p := parsers[id]
	_, s := serializers[id]
	if !p && !s {
		return xmperr.Fail(xmperr.General, xmperr.InterfaceUnavailable, "no format %q", id)
	}
	delete(parsers, id)
	delete(serializers, id)
	if debug.Registry() {
		debug.Logf("unregistered %s\n", id)
	}
	return nil
}

// Formats lists the ids having a parser or a serializer, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	seen := map[string]bool{}
	for id := range parsers {
		seen[id] = true
	}
	for id := range serializers {
		seen[id] = true
	}
	res := make([]string, 0, len(seen))
	for id := range seen {
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

// NewParser builds a parser with the factory registered under id.
func NewParser(id string) (p Parser, err error) {
	if !Initialized() {
		return nil, notInitialized()
	}
	f, ok := LookupParser(id)
	if !ok {
		return nil, xmperr.Fail(xmperr.General, xmperr.InterfaceUnavailable, "no parser %q", id)
	}
	defer xmperr.Guard(&err, "parser factory "+id)
	p = f()
	if p == nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.InternalFailure, "parser factory %q returned nil", id)
	}
	return p, nil
}

// NewSerializer builds a serializer with the factory registered under id.
func NewSerializer(id string) (s Serializer, err error) {
	if !Initialized() {
		return nil, notInitialized()
	}
	f, ok := LookupSerializer(id)
	if !ok {
		return nil, xmperr.Fail(xmperr.General, xmperr.InterfaceUnavailable, "no serializer %q", id)
	}
	defer xmperr.Guard(&err, "serializer factory "+id)
	s = f()
	if s == nil {
		return nil, xmperr.Fail(xmperr.General, xmperr.InternalFailure, "serializer factory %q returned nil", id)
	}
	return s, nil
}
