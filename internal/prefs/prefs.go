// Package prefs provides the durable string-keyed stores that dashboard
// preferences are saved to.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nightdriver/ndsmon/internal/errors"
)

// Store is a durable string-keyed blob store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendPebble, BackendMemory}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// DefaultPath returns the default location for a backend's data under
// ~/.config/ndsmon. The memory backend has no path.
func DefaultPath(backend string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".config", "ndsmon")
	switch backend {
	case BackendPebble:
		return filepath.Join(dir, "prefs.db")
	case BackendFile:
		return filepath.Join(dir, "preferences.json")
	default:
		return ""
	}
}

// Open opens the named backend at path. An empty path uses DefaultPath.
func Open(backend, path string) (Store, error) {
	if backend == "" {
		backend = BackendFile
	}
	if path == "" {
		path = DefaultPath(backend)
	}
	path = expandHome(path)

	var (
		store Store
		err   error
	)
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		store, err = OpenFileStore(path)
	case BackendPebble:
		store, err = OpenPebbleStore(path)
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown preferences backend %q", backend),
			"Use one of: "+strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't open %s preferences at %s", backend, path),
			"Check the preferences.path setting, or use preferences.backend: memory")
	}
	return store, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// MemoryStore keeps values in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
