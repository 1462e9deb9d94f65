package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	logx "github.com/plenarlens/server/pkg/logger"
)

// FileStore keeps the keys in a TOML file readable only by the user.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is $XDG_CONFIG_HOME/plenar/credentials.toml or its OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "plenar", "credentials.toml"), nil
}

// Load returns empty Keys when the file does not exist yet.
func (f *FileStore) Load(_ context.Context) (Keys, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Keys{}, nil
	}
	if err != nil {
		return Keys{}, fmt.Errorf("read credentials: %w", err)
	}
	var keys Keys
	if err := toml.Unmarshal(data, &keys); err != nil {
		return Keys{}, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	return keys, nil
}

// Save replaces the file atomically.
func (f *FileStore) Save(_ context.Context, keys Keys) error {
	data, err := toml.Marshal(keys)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	logx.Debug().Str("path", f.path).Msg("credentials saved")
	return nil
}

var _ Store = (*FileStore)(nil)

// MemoryStore is a Store without persistence.
type MemoryStore struct {
	Keys Keys
}

func (m *MemoryStore) Load(context.Context) (Keys, error) { return m.Keys, nil }

func (m *MemoryStore) Save(_ context.Context, keys Keys) error {
	m.Keys = keys
	return nil
}
