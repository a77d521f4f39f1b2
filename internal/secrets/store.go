package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the persisted API token.
type Store interface {
	Get() (string, error)
	Set(value string) error
	Clear() error
}

// FileStore keeps the token in a single file, created with owner-only
// permissions. A missing file means no token and is not an error.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token from %q: %w", s.Path, err)
	}

	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("token is empty")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}

	return os.WriteFile(s.Path, []byte(value+"\n"), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// Static returns a read-only store with a fixed value. An empty value
// makes requests anonymous.
func Static(value string) Store {
	return staticStore(value)
}

type staticStore string

func (s staticStore) Get() (string, error) {
	return string(s), nil
}

func (s staticStore) Set(string) error {
	return fmt.Errorf("static token store is read-only")
}

func (s staticStore) Clear() error {
	return fmt.Errorf("static token store is read-only")
}

// DefaultTokenPath is where login persists the token unless overridden.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "nova-matches", "token"), nil
}
