package engine

import (
	"sync"

	"github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

// Builder constructs a Transcriber from engine configuration.
type Builder func(cfg Config) (Transcriber, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register makes a backend available under the given name. Backends call this
// from init(); the binary selects which backends exist via blank imports.
func Register(name string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = builder
}

// New builds the named backend.
func New(name string, cfg Config) (Transcriber, error) {
	registryMu.RLock()
	builder, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrEngineNotRegistered, "provider %q", name)
	}
	return builder(cfg)
}

// Registered returns the names of all registered backends.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
