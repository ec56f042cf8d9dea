package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File stores all slots in one JSON document.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a file-backed store at path. The file is created lazily.
func NewFile(path string) *File {
	return &File{path: path}
}

// savedSlots is the on-disk layout.
type savedSlots struct {
	Values  map[string]string `json:"values"`
	SavedAt time.Time         `json:"saved_at"`
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := s.Values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	if err != nil {
		return err
	}
	s.Values[key] = value
	return f.save(s)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := s.Values[key]; !ok {
		return nil
	}
	delete(s.Values, key)
	return f.save(s)
}

func (f *File) load() (*savedSlots, error) {
	s := &savedSlots{Values: make(map[string]string)}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	return s, nil
}

func (f *File) save(s *savedSlots) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	s.SavedAt = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write store %s: %w", f.path, err)
	}
	slog.Debug("store saved", slog.String("path", f.path))
	return nil
}
