package prefs

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
)

const keyPrefix = "pref:"

var errStoreClosed = stderrors.New("prefs: store is closed")

// PebbleStore keeps preferences in a pebble database directory. Writes are
// synced before Set returns.
type PebbleStore struct {
	mu sync.Mutex
	db *pebble.DB
}

// OpenPebbleStore opens (creating if needed) the database at path.
func OpenPebbleStore(path string) (*PebbleStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, stderrors.New("prefs: database path is empty")
	}
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("prefs: %s exists and is not a directory", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("prefs: stat path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("prefs: ensure directory: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("prefs: open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", false, errStoreClosed
	}

	value, closer, err := s.db.Get([]byte(keyPrefix + key))
	if err != nil {
		if stderrors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("prefs: get %s: %w", key, err)
	}
	defer closer.Close()
	// value is only valid until closer.Close
	return string(value), true, nil
}

func (s *PebbleStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return errStoreClosed
	}
	if err := s.db.Set([]byte(keyPrefix+key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	return nil
}

// Close releases the database. Later calls return an error.
func (s *PebbleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
