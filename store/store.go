// Package store persists the working document and the collaborator
// configuration of an editing session.
//
// Values live under two fixed keys in a Backend: the document JSON under
// KeyProject and the provider configuration under KeyAIConfig. API keys are
// never written.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/config"
	"github.com/lvillar/deckforge/document"
)

// Persisted keys.
const (
	KeyProject  = "idle_project"
	KeyAIConfig = "idle_ai_config"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("store: not found")

// Backend is a byte-oriented key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store reads and writes typed values through a Backend.
type Store struct {
	b Backend
}

// New returns a store over b.
func New(b Backend) *Store {
	return &Store{b: b}
}

// Open returns a store over the backend cfg selects.
func Open(cfg config.Storage) (*Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		b, err := NewRedis(RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, Prefix: cfg.RedisPrefix})
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case config.BackendFile, "":
		b, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

// LoadDocument returns the saved document. It accepts documents saved by
// the original editor as well.
func (s *Store) LoadDocument(ctx context.Context) (*document.Document, error) {
	data, err := s.b.Get(ctx, KeyProject)
	if err != nil {
		return nil, err
	}
	if document.IsLegacy(data) {
		return document.ParseLegacy(data)
	}
	return document.Parse(data)
}

// SaveDocument stores doc. A nil document clears the key.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document) error {
	if doc == nil {
		return s.b.Delete(ctx, KeyProject)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encoding document: %w", err)
	}
	return s.b.Set(ctx, KeyProject, data)
}

// LoadAIConfig returns the saved provider configuration. APIKey is always
// empty.
func (s *Store) LoadAIConfig(ctx context.Context) (ai.Config, error) {
	data, err := s.b.Get(ctx, KeyAIConfig)
	if err != nil {
		return ai.Config{}, err
	}
	var cfg ai.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ai.Config{}, fmt.Errorf("store: decoding %s: %w", KeyAIConfig, err)
	}
	return cfg, nil
}

// SaveAIConfig stores cfg without its API key.
func (s *Store) SaveAIConfig(ctx context.Context, cfg ai.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", KeyAIConfig, err)
	}
	return s.b.Set(ctx, KeyAIConfig, data)
}

// Clear removes every persisted value.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(s.b.Delete(ctx, KeyProject), s.b.Delete(ctx, KeyAIConfig))
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.b.Close()
}
