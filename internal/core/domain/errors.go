package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running for the site.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrNoSite indicates no site has been connected yet.
	ErrNoSite = errors.New("no site connected")

	// ErrNoCredential indicates the secret for the site is missing from the secret store.
	ErrNoCredential = errors.New("no credential found")

	// ErrMissingRemoteID indicates an update was attempted on a post that was never uploaded.
	ErrMissingRemoteID = errors.New("post has no remote id")

	// Remote Errors.

	// ErrInvalidURL indicates the site URL is malformed or not HTTPS.
	ErrInvalidURL = errors.New("invalid site url")

	// ErrInvalidResponse indicates a non-HTTP or unreadable response.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrUnauthorized indicates the remote rejected the credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrResponseTooLarge indicates the transport refused an oversized response.
	// The remote client degrades page size before surfacing it.
	ErrResponseTooLarge = errors.New("response too large")
)

// HTTPError is a non-2xx response other than 401.
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http error %d", e.StatusCode)
}

// DecodingError wraps a failure to decode a response body.
type DecodingError struct {
	// What names the payload being decoded (e.g. "post list").
	What string
	Err  error
}

// Error implements the error interface.
func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.What, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodingError) Unwrap() error {
	return e.Err
}

// EncodingError wraps a failure to encode a request body.
type EncodingError struct {
	What string
	Err  error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.What, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}
