package driven

import "context"

// SecretStore keeps site secrets outside the database.
// Keys are derived with domain.SecretKey.
type SecretStore interface {
	// Save stores a secret under key, replacing any existing value.
	Save(ctx context.Context, key, secret string) error

	// Retrieve returns the secret stored under key.
	// Returns domain.ErrNotFound if nothing is stored.
	Retrieve(ctx context.Context, key string) (string, error)

	// Delete removes the secret. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
