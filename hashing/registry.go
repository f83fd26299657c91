package hashing

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps driver names to hashers.
//
// The hashpass command builds one with [NewDefaultRegistry] and looks up the
// configured driver by name. [Registry.Verify] checks a hash without knowing
// in advance which driver made it.
//
// # Thread safety
//
// All methods are safe for concurrent use. A [sync.RWMutex] serialises
// Register while allowing concurrent lookups.
type Registry struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
}

// NewRegistry returns a Registry holding hashers, keyed by their Driver().
// A later hasher replaces an earlier one with the same name.
func NewRegistry(hashers ...Hasher) (*Registry, error) {
	r := &Registry{drivers: make(map[DriverName]Hasher, len(hashers))}
	for _, h := range hashers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultRegistry builds a Registry with a bcrypt and an Argon2id driver.
func NewDefaultRegistry(bc BcryptOptions, a2 Argon2Options) (*Registry, error) {
	bh, err := NewBcryptHasher(bc)
	if err != nil {
		return nil, err
	}
	ah, err := NewArgon2idHasher(a2)
	if err != nil {
		return nil, err
	}
	return NewRegistry(bh, ah)
}

// Register adds h under h.Driver(), replacing any previous entry.
func (r *Registry) Register(h Hasher) error {
	if h == nil {
		return ErrNilHasher
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[h.Driver()] = h
	return nil
}

// Lookup returns the hasher registered under name.
func (r *Registry) Lookup(name DriverName) (Hasher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return h, nil
}

// Names returns the registered driver names in sorted order.
func (r *Registry) Names() []DriverName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.drivers))
}

// Verify detects which driver produced hash and checks password against it.
func (r *Registry) Verify(password []byte, hash string) (bool, error) {
	name, ok := DetectDriver(hash)
	if !ok {
		return false, ErrInvalidHash
	}
	h, err := r.Lookup(name)
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}
