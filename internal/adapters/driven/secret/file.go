package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// secretsFile is the file name inside the application directory.
const secretsFile = "secrets.toml"

// Ensure FileStore implements the interface.
var _ driven.SecretStore = (*FileStore)(nil)

// FileStore keeps secrets in a TOML file readable only by the owner.
// The file is read on every call so that several processes see each
// other's writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed secret store in dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating secrets directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, secretsFile)}, nil
}

// Path returns the secrets file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save stores a secret under key, replacing any existing value.
func (s *FileStore) Save(_ context.Context, key, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	secrets[key] = secret
	return s.write(secrets)
}

// Retrieve returns the secret stored under key.
func (s *FileStore) Retrieve(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return secret, nil
}

// Delete removes the secret. Deleting a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[key]; !ok {
		return nil
	}
	delete(secrets, key)
	return s.write(secrets)
}

// load reads the secrets file (caller must hold lock).
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets: %w", err)
	}

	secrets := make(map[string]string)
	if err := toml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing secrets: %w", err)
	}
	return secrets, nil
}

// write replaces the secrets file (caller must hold lock). The new
// content goes to a temporary file first so a crash never leaves a
// truncated file behind.
func (s *FileStore) write(secrets map[string]string) error {
	data, err := toml.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing secrets: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing secrets: %w", err)
	}
	return nil
}
