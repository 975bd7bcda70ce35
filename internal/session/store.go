package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout: a single `session:` key.
type file struct {
	Session string `yaml:"session"`
}

// FileStore persists the eero session token in a YAML file.
//
// All methods are safe for concurrent use.
type FileStore struct {
	path string

	mu    sync.RWMutex
	token string
}

// Load opens the store at path. A missing file is an empty store; a file
// that exists but cannot be parsed is an error.
func Load(path string) (*FileStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("session: resolve %q: %w", path, err)
	}
	s := &FileStore{path: abs}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the session file.
func (s *FileStore) Path() string { return s.path }

// Token returns the stored session token, if any.
func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken stores token and returns once it is durable on disk. The file is
// replaced atomically so a crash never leaves a truncated session.
func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(file{Session: token})
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := writeFileSync(s.path, data); err != nil {
		return fmt.Errorf("session: write %q: %w", s.path, err)
	}
	s.token = token
	return nil
}

// reload re-reads the file into memory.
func (s *FileStore) reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read %q: %w", s.path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("session: parse %q: %w", s.path, err)
	}
	s.mu.Lock()
	s.token = f.Session
	s.mu.Unlock()
	return nil
}

func writeFileSync(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.yml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
