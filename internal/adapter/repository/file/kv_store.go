// Package file persists the client session as a JSON object on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/iho/abrazar/internal/domain"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// KVStore implements usecase.KeyValueStore over a single JSON file. Every
// operation reads the file, so sessions written by another process are seen on
// the next access. Writes replace the file atomically.
type KVStore struct {
	mu   sync.Mutex
	path string
}

// NewKVStore creates a store backed by path. The file and its directory are
// created on first write.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path}
}

// Path returns the backing file.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)

	if len(data) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return s.save(data)
}

func (s *KVStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return data, nil
}

func (s *KVStore) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
