package state

import (
	"encoding/base32"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore persists each record as one file under a root directory. Keys
// are base32-encoded so slashes and case survive any filesystem. Writes go
// through a temp file and rename, so a crash never leaves a torn record.
type FileStore struct {
	mu   sync.RWMutex
	root string
}

var _ Store = (*FileStore)(nil)

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewFileStore opens (creating if needed) a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.root, keyEncoding.EncodeToString([]byte(key)))
}

func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	dst := f.path(key)
	tmp, err := os.CreateTemp(f.root, ".write-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FileStore) Iterate(prefix string, fn func(key string, value []byte) bool) error {
	f.mu.RLock()
	entries, err := os.ReadDir(f.root)
	f.mu.RUnlock()
	if err != nil {
		return err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		raw, err := keyEncoding.DecodeString(e.Name())
		if err != nil {
			continue
		}
		key := string(raw)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok, err := f.Get(k)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if fn(k, v) {
			return nil
		}
	}
	return nil
}
