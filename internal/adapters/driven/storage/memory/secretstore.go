package memory

import (
	"context"
	"sync"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Ensure SecretStore implements the interface.
var _ driven.SecretStore = (*SecretStore)(nil)

// SecretStore is an in-memory implementation of driven.SecretStore for testing.
type SecretStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewSecretStore creates a new in-memory secret store.
func NewSecretStore() *SecretStore {
	return &SecretStore{
		secrets: make(map[string]string),
	}
}

// Save stores a secret under key.
func (s *SecretStore) Save(_ context.Context, key, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key] = secret
	return nil
}

// Retrieve returns the secret stored under key.
func (s *SecretStore) Retrieve(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return secret, nil
}

// Delete removes the secret.
func (s *SecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, key)
	return nil
}
