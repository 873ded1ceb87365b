package config

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/signadot/xmpdom/xmperr"
)

// Configurable is implemented by components carrying a Store.
type Configurable interface {
	Config() *Store
}

// Store is a key to Value option bag. The keys it recognises and how it
// treats the rest are fixed when it is built.
type Store struct {
	mu     sync.RWMutex
	values map[string]Value

	allowed         map[string][]Kind
	strict          bool
	caseInsensitive bool
	allowTypeChange bool
	validate        func(key string, v Value) error
	defaults        map[string]Value
}

type Option func(*Store)

// AllowKey declares a recognised key. With no kinds the key accepts any
// kind.
func AllowKey(key string, kinds ...Kind) Option {
	return func(s *Store) {
		if s.allowed == nil {
			s.allowed = map[string][]Kind{}
		}
		s.allowed[key] = kinds
	}
}

// Strict makes setting an unrecognised key a hard failure. Non strict
// stores raise a warning and ignore the key if the notifier recovers.
func Strict(v bool) Option {
	return func(s *Store) { s.strict = v }
}

func CaseInsensitive() Option {
	return func(s *Store) { s.caseInsensitive = true }
}

// AllowTypeChange permits replacing a value with one of another kind.
func AllowTypeChange() Option {
	return func(s *Store) { s.allowTypeChange = true }
}

// Validate installs a hook run on every Set after the kind checks.
func Validate(f func(key string, v Value) error) Option {
	return func(s *Store) { s.validate = f }
}

// Defaults sets initial values after the other options are applied.
func Defaults(kvs map[string]Value) Option {
	return func(s *Store) { s.defaults = kvs }
}

func New(opts ...Option) *Store {
	s := &Store{values: map[string]Value{}}
	for _, o := range opts {
		o(s)
	}
	if s.caseInsensitive && s.allowed != nil {
		folded := make(map[string][]Kind, len(s.allowed))
		for k, v := range s.allowed {
			folded[strings.ToLower(k)] = v
		}
		s.allowed = folded
	}
	for k, v := range s.defaults {
		s.values[s.key(k)] = v
	}
	s.defaults = nil
	return s
}

func (s *Store) key(k string) string {
	if s.caseInsensitive {
		return strings.ToLower(k)
	}
	return k
}

// Recognizes reports whether key is one of the declared keys. A store
// without declared keys recognises everything.
func (s *Store) Recognizes(key string) bool {
	if s.allowed == nil {
		return true
	}
	_, ok := s.allowed[s.key(key)]
	return ok
}

func (s *Store) Set(key string, v Value) error {
	k := s.key(key)
	if v.Kind() == NoKind {
		return xmperr.Fail(xmperr.Configuration, xmperr.ValueTypeNotSupported, "no value for %q", key)
	}
	if s.allowed != nil {
		kinds, ok := s.allowed[k]
		if !ok {
			if s.strict {
				return xmperr.Fail(xmperr.Configuration, xmperr.KeyNotSupported, "key %q", key)
			}
			e, recovered := xmperr.Raise(xmperr.Configuration, xmperr.KeyNotSupported,
				xmperr.SeverityWarning, "key %q ignored", key)
			if recovered {
				return nil
			}
			return e
		}
		if len(kinds) != 0 && !slices.Contains(kinds, v.Kind()) {
			return xmperr.Fail(xmperr.Configuration, xmperr.ValueTypeNotSupported,
				"key %q does not take %s values", key, v.Kind())
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.values[k]; ok && !s.allowTypeChange && prev.Kind() != v.Kind() {
		return xmperr.Fail(xmperr.Configuration, xmperr.PreviousTypeDifferent,
			"key %q holds %s, got %s", key, prev.Kind(), v.Kind())
	}
	if s.validate != nil {
		if err := s.validate(k, v); err != nil {
			e := xmperr.Fail(xmperr.Configuration, xmperr.ValueNotSupported, "key %q: %v", key, err)
			e.Cause = err
			return e
		}
	}
	s.values[k] = v
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[s.key(key)]
	if !ok {
		return Value{}, xmperr.Fail(xmperr.Configuration, xmperr.KeyNotSupported, "key %q not set", key)
	}
	return v, nil
}

// GetAs is Get requiring the value to be of kind k.
func (s *Store) GetAs(key string, k Kind) (Value, error) {
	v, err := s.Get(key)
	if err != nil {
		return v, err
	}
	if v.Kind() != k {
		return Value{}, xmperr.Fail(xmperr.Configuration, xmperr.ValueTypeMismatch,
			"key %q holds %s, requested %s", key, v.Kind(), k)
	}
	return v, nil
}

func (s *Store) Bool(key string) (bool, error) {
	v, err := s.GetAs(key, BoolKind)
	return v.Bool(), err
}

func (s *Store) Int(key string) (int64, error) {
	v, err := s.GetAs(key, IntKind)
	return v.Int(), err
}

func (s *Store) Float(key string) (float64, error) {
	v, err := s.GetAs(key, FloatKind)
	return v.Float(), err
}

func (s *Store) String(key string) (string, error) {
	v, err := s.GetAs(key, StringKind)
	return v.Str(), err
}

func (s *Store) Pointer(key string) (any, error) {
	v, err := s.GetAs(key, PointerKind)
	return v.Pointer(), err
}

// BoolOr returns the bool under key, or def if it is absent or of another
// kind. It does not notify.
func (s *Store) BoolOr(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[s.key(key)]
	if !ok || v.Kind() != BoolKind {
		return def
	}
	return v.Bool()
}

// IntOr is BoolOr for ints.
func (s *Store) IntOr(key string, def int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[s.key(key)]
	if !ok || v.Kind() != IntKind {
		return def
	}
	return v.Int()
}

// StringOr is BoolOr for strings.
func (s *Store) StringOr(key string, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[s.key(key)]
	if !ok || v.Kind() != StringKind {
		return def
	}
	return v.Str()
}

// KindOf returns the kind stored under key.
func (s *Store) KindOf(key string) (Kind, error) {
	v, err := s.Get(key)
	return v.Kind(), err
}

func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(key)
	_, ok := s.values[k]
	delete(s.values, k)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Keys returns the set keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]string, 0, len(s.values))
	for k := range s.values {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Clone copies s, including its construction contract.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := &Store{
		values:          make(map[string]Value, len(s.values)),
		strict:          s.strict,
		caseInsensitive: s.caseInsensitive,
		allowTypeChange: s.allowTypeChange,
		validate:        s.validate,
	}
	if s.allowed != nil {
		res.allowed = make(map[string][]Kind, len(s.allowed))
		for k, v := range s.allowed {
			res.allowed[k] = slices.Clone(v)
		}
	}
	for k, v := range s.values {
		res.values[k] = v
	}
	return res
}

// Load sets every entry of m, converting Go values with FromAny. It stops
// at the first failure.
func (s *Store) Load(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return err
		}
		if err := s.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
