package atatrim

import "sync"

// The backend registry is process-wide state initialized at startup, in the
// manner of database/sql driver registration. Driver-selection logic asks it
// which class a device path belongs to; backends are queried in registration
// order.
var (
	registryMu sync.RWMutex
	registry   []Backend
)

// Register adds a backend to the registry. Typically called from an init
// function of the package implementing the backend.
func Register(b Backend) {
	if b == nil {
		panic("atatrim: Register called with nil backend")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, b)
}

// Backends returns the registered backends in registration order.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Backend, len(registry))
	copy(out, registry)
	return out
}

// ForPath returns the first registered backend claiming the path.
func ForPath(p Path) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, b := range registry {
		if b.Matches(p) {
			return b, nil
		}
	}
	return nil, NewError("CLASSIFY", ErrCodeDeviceNotFound, "no backend claims device path")
}
