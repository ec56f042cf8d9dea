// Package store persists the client's session slots (the session token and
// the transient logout flag) in a small key-value store.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys.
const (
	TokenKey      = "twitter_token"
	LogoutFlagKey = "logout_flag"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Store is a single-writer key-value slot store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a backend.
type Config struct {
	Backend       string `yaml:"backend" validate:"omitempty,oneof=memory file sqlite redis"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	Prefix        string `yaml:"prefix"`
}

// DefaultDir returns ~/.go-xclient, the default location for on-disk stores.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".go-xclient")
}

// Open builds the backend described by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		path := cfg.Path
		if path == "" {
			path = filepath.Join(DefaultDir(), "session.json")
		}
		return NewFile(path), nil
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = filepath.Join(DefaultDir(), "session.db")
		}
		return OpenSQLite(path)
	case BackendRedis:
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Prefix), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
