package shared

import (
	"errors"
	"fmt"

	"github.com/paulpark6/salesvision/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = fmt.Errorf("not found: %w", httpx.ErrNotFound)
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)
	// ErrUnauthenticated is returned when a request carries no signed-in principal.
	ErrUnauthenticated = fmt.Errorf("authentication required: %w", httpx.ErrUnauthorized)
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = fmt.Errorf("csrf token missing: %w", httpx.ErrForbidden)
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = fmt.Errorf("csrf token mismatch: %w", httpx.ErrForbidden)
	// ErrPermissionDenied is returned when a principal lacks a capability.
	ErrPermissionDenied = fmt.Errorf("permission denied: %w", httpx.ErrForbidden)
)

// IsAuthError reports whether err should be answered with 401 or 403.
func IsAuthError(err error) bool {
	return errors.Is(err, httpx.ErrUnauthorized) || errors.Is(err, httpx.ErrForbidden)
}
