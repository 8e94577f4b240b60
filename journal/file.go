package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileBackend keeps every key in one JSON object on disk.
type fileBackend struct {
	path string
}

// NewFileStore opens (or lazily creates) a JSON journal file at path.
func NewFileStore(path string) (*KeyedStore, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
	}
	return NewKeyedStore(&fileBackend{path: path}), nil
}

func (f *fileBackend) Read(ctx context.Context, key string) ([]byte, error) {
	doc, err := f.readAll()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[key]
	if !ok {
		return nil, nil
	}
	return raw, nil
}

func (f *fileBackend) Write(ctx context.Context, key string, data []byte) error {
	doc, err := f.readAll()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(data)
	return f.writeAll(doc)
}

func (f *fileBackend) Remove(ctx context.Context, key string) error {
	doc, err := f.readAll()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.writeAll(doc)
}

func (f *fileBackend) Close() error { return nil }

func (f *fileBackend) readAll() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, ErrCorrupt)
	}
	return doc, nil
}

// writeAll replaces the file via rename so a crash never leaves half a
// document behind.
func (f *fileBackend) writeAll(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".journal-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
