package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// FileStore persists the snapshot as one JSON file at a fixed path. A
// missing, unreadable or corrupt file reads as an empty cart; corruption is
// logged, never surfaced to the caller.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read() (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.CartSnapshot{}, nil
	}
	if err != nil {
		log.Printf("cart store: read %s failed, starting empty: %v", s.path, err)
		return domain.CartSnapshot{}, nil
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		log.Printf("cart store: %s is corrupt, starting empty: %v", s.path, err)
		return domain.CartSnapshot{}, nil
	}
	return snapshot, nil
}

// Write replaces the stored snapshot atomically via temp file + rename so a
// crash mid-write cannot leave a half-written record behind.
func (s *FileStore) Write(snapshot domain.CartSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}
