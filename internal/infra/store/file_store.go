package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
)

var _ store.CredentialStore = (*FileStore)(nil)

// FileStore persists credentials as a single 0600 JSON file. Writes go
// through a temp file + rename so a crash never leaves a torn session on
// disk. A mutex serializes writers within the process; the last writer wins,
// which is safe because refresh writes are already single-flighted upstream.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileCredentials struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user,omitempty"`
}

func (f *FileStore) Load(_ context.Context) (store.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Credentials{}, nil
	}
	if err != nil {
		return store.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	var fc fileCredentials
	if err := json.Unmarshal(b, &fc); err != nil {
		// A corrupt file is an empty session, not a fatal condition.
		return store.Credentials{}, nil
	}
	return store.Credentials{
		AccessToken:  fc.AccessToken,
		RefreshToken: fc.RefreshToken,
		User:         fc.User,
	}, nil
}

func (f *FileStore) Save(_ context.Context, c store.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	b, err := json.MarshalIndent(fileCredentials{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		User:         c.User,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
