package secret

import (
	"fmt"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// New returns the secret store for backend. dir is used by the file backend.
func New(backend domain.SecretBackend, dir string) (driven.SecretStore, error) {
	switch backend {
	case domain.SecretBackendKeychain:
		return NewKeychainStore(), nil
	case domain.SecretBackendFile:
		return NewFileStore(dir)
	default:
		return nil, fmt.Errorf("%w: unknown secret backend %q", domain.ErrInvalidInput, backend)
	}
}
