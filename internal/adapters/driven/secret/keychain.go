package secret

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// keychainService is the service name every keychain item is filed under.
const keychainService = domain.AppID

// exitItemNotFound is the status security exits with for a missing item.
const exitItemNotFound = 44

// commandRunner runs an external command and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Ensure KeychainStore implements the interface.
var _ driven.SecretStore = (*KeychainStore)(nil)

// KeychainStore implements driven.SecretStore using the macOS Keychain
// via the `security` CLI tool.
type KeychainStore struct {
	run commandRunner
}

// NewKeychainStore creates a new KeychainStore.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w", msg, err)
		}
		return out, err
	}
	return out, nil
}

// Save stores a secret in the keychain, updating an existing item.
func (k *KeychainStore) Save(ctx context.Context, key, secret string) error {
	_, err := k.run(ctx, "security", "add-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w", secret,
		"-U", // update if exists
	)
	if err != nil {
		return fmt.Errorf("keychain save: %w", err)
	}
	return nil
}

// Retrieve returns the secret stored under key.
func (k *KeychainStore) Retrieve(ctx context.Context, key string) (string, error) {
	out, err := k.run(ctx, "security", "find-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w", // output only the password
	)
	if isItemNotFound(err) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// Delete removes the secret. A missing item is not an error.
func (k *KeychainStore) Delete(ctx context.Context, key string) error {
	_, err := k.run(ctx, "security", "delete-generic-password",
		"-a", key,
		"-s", keychainService,
	)
	if err != nil && !isItemNotFound(err) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

func isItemNotFound(err error) bool {
	var exitErr interface{ ExitCode() int }
	return errors.As(err, &exitErr) && exitErr.ExitCode() == exitItemNotFound
}
