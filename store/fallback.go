package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FallbackKV is a best-effort flat key/value file used for settings when the
// primary store is unavailable. Values written here are not replayed into
// the primary store.
type FallbackKV struct {
	mu   sync.Mutex
	path string
}

func NewFallbackKV(path string) *FallbackKV {
	return &FallbackKV{path: path}
}

func (f *FallbackKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.load()
	v, ok := m[key]
	return v, ok
}

func (f *FallbackKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.load()
	m[key] = value
	return f.save(m)
}

func (f *FallbackKV) load() map[string]string {
	m := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if err != nil {
		return m
	}
	_ = json.Unmarshal(b, &m)
	return m
}

func (f *FallbackKV) save(m map[string]string) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return os.WriteFile(f.path, b, 0o644)
}
