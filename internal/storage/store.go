package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bamboobot/pkg/logx"
)

type Config struct {
	// Dir holds the namespace documents (<dir>/<namespace>.json).
	Dir string
}

// Store is the single writer for all settings namespaces.
type Store struct {
	log logx.Logger
	dir string

	mu sync.Mutex
}

func Open(cfg Config, log logx.Logger) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("storage.dir is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{log: log, dir: dir}, nil
}

func (s *Store) path(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

// Load reads a namespace into a key->record map. It returns an empty map
// when the document is absent or unreadable, never an error.
func Load[T any](s *Store, namespace string) map[string]T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]T{}
	b, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings read failed; starting empty",
				logx.String("namespace", namespace), logx.Err(err))
		}
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		s.log.Warn("settings file malformed; starting empty",
			logx.String("namespace", namespace), logx.Err(err))
		return map[string]T{}
	}
	return out
}

// Save persists a namespace atomically (write temp, then rename).
func Save[T any](s *Store, namespace string, records map[string]T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(namespace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
