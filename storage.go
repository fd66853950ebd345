package recipescale

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	DefaultIngredientsKey = "babaGhanoujIngredients"
	DefaultRecordsKey     = "babaGhanoujRecords"
)

// Storage persists whole blobs by key. Load reports false when nothing has
// been saved under key yet.
type Storage interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
}

type MemoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStorage) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

// FileStorage keeps one <key>.json file per key under a directory.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) (*FileStorage, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{root: root}, nil
}

func (fs *FileStorage) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(fs.root, key+".json"), nil
}

func (fs *FileStorage) Load(key string) ([]byte, bool, error) {
	path, err := fs.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save writes to a temp file and renames it over the old blob.
func (fs *FileStorage) Save(key string, data []byte) error {
	path, err := fs.pathFor(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(fs.root, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
