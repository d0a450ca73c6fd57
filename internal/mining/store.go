package mining

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"btcpulse/internal/domain"
)

// SettingsStore keeps the user's mining settings across sessions.
type SettingsStore interface {
	Load(ctx context.Context) (domain.MiningSettings, error)
	Save(ctx context.Context, s domain.MiningSettings) error
}

// FileStore persists settings as a JSON document. A missing file loads the
// default profile.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (domain.MiningSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("read mining settings: %w", err)
	}

	var settings domain.MiningSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("decode mining settings: %w", err)
	}
	if err := Validate(settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

// Save validates and atomically replaces the settings file.
func (s *FileStore) Save(_ context.Context, settings domain.MiningSettings) error {
	if err := Validate(settings); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mining settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".mining-settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write mining settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close mining settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace mining settings: %w", err)
	}
	return nil
}

// MemoryStore keeps settings for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	settings domain.MiningSettings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: DefaultSettings()}
}

func (s *MemoryStore) Load(_ context.Context) (domain.MiningSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) Save(_ context.Context, settings domain.MiningSettings) error {
	if err := Validate(settings); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}
