package wordpress

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"

	"github.com/quill-editor/quill/internal/core/domain"
)

// maxErrorMessage bounds the body excerpt kept in an HTTPError.
const maxErrorMessage = 200

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// IsTooLarge checks if the error is a transport oversize failure.
func IsTooLarge(err error) bool {
	return errors.Is(err, domain.ErrResponseTooLarge)
}

// isRetryable reports whether a status is worth retrying.
func isRetryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isOversize recognises the transport-level "message too long" signal.
func isOversize(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EMSGSIZE) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "message too long")
}

// statusError converts a non-2xx response to a domain error.
func statusError(resp *response, url string) error {
	if resp.status >= 200 && resp.status < 300 {
		return nil
	}

	message := errorMessage(resp.body)
	if resp.status == http.StatusUnauthorized {
		if message == "" {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, message)
	}

	return &domain.HTTPError{
		StatusCode: resp.status,
		Message:    message,
		URL:        url,
	}
}

// errorMessage extracts the REST error message, falling back to a body excerpt.
func errorMessage(body []byte) string {
	var wire wireError
	if err := json.Unmarshal(body, &wire); err == nil && wire.Message != "" {
		return wire.Message
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorMessage {
		text = text[:maxErrorMessage]
	}
	return text
}
