package xmpdom

import (
	"sync"

	"github.com/signadot/xmpdom/alloc"
	"github.com/signadot/xmpdom/codec/jsonfmt"
	"github.com/signadot/xmpdom/codec/rdfxml"
	"github.com/signadot/xmpdom/codec/yamlfmt"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/encode"
	"github.com/signadot/xmpdom/plugin"
	"github.com/signadot/xmpdom/xmperr"
)

// ConfigurationManager holds the process wide hooks.
type ConfigurationManager struct{}

var manager = &ConfigurationManager{}

func GetConfigurationManager() *ConfigurationManager {
	return manager
}

// RegisterAllocator installs a for serializer output buffers. nil
// restores the heap allocator.
func (*ConfigurationManager) RegisterAllocator(a alloc.Allocator) alloc.Allocator {
	return alloc.Set(a)
}

// RegisterErrorNotifier installs n, returning the previous notifier.
func (*ConfigurationManager) RegisterErrorNotifier(n xmperr.Notifier) xmperr.Notifier {
	return xmperr.SetNotifier(n)
}

// DisableMultiThreading makes nodes created afterwards skip locking.
func (*ConfigurationManager) DisableMultiThreading() {
	dom.SetMultiThreaded(false)
}

func (*ConfigurationManager) IsMultiThreaded() bool {
	return dom.IsMultiThreaded()
}

var (
	initMu    sync.Mutex
	initCount int
)

var builtins = []func() error{
	rdfxml.Register,
	jsonfmt.Register,
	yamlfmt.Register,
	encode.Register,
}

// Initialize readies the format registry with the built in formats.
// Calls nest: the registry is torn down by the matching last Terminate.
func Initialize() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initCount == 0 {
		plugin.Init()
		for _, r := range builtins {
			if err := r(); err != nil {
				plugin.Teardown()
				return err
			}
		}
	}
	initCount++
	return nil
}

// Terminate undoes one Initialize.
func Terminate() {
	initMu.Lock()
	defer initMu.Unlock()
	if initCount == 0 {
		return
	}
	initCount--
	if initCount == 0 {
		plugin.Teardown()
	}
}
