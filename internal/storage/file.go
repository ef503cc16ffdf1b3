package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists keys as one JSON document on disk. Suited to CLI and desktop
// shells where the cart should survive process restarts.
//
// Every mutation rewrites the whole document via rename, so a mid-write crash
// leaves the previous document intact. A document that fails to parse is
// discarded rather than surfaced: hydration from a corrupt cache must not
// break the caller.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// NewFile opens (or initializes) the document at path.
func NewFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		// Corrupt document: start over.
		f.values = make(map[string]json.RawMessage)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !json.Valid(value) {
		// The document on disk must stay parseable as a whole.
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	f.values[key] = append([]byte(nil), value...)
	return f.flush()
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]json.RawMessage)
	return f.flush()
}

// flush writes the document atomically. Caller holds the lock.
func (f *File) flush() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
