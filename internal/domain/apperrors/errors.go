// File: internal/domain/apperrors/errors.go
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrInternal      = errors.New("internal server error")
	ErrValidation    = errors.New("invalid request")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrUnauthorized  = errors.New("unauthorized")

	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpiredOrRevoked = errors.New("refresh token expired or revoked")

	ErrEmailExists = errors.New("email already registered")

	ErrProductUnavailable      = errors.New("product not found or unavailable")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNotCancellable     = errors.New("order can no longer be cancelled")
)

// IsNotFound reports whether err maps to a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err maps to a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpiredOrRevoked)
}

// IsConflict reports whether err maps to a 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrEmailExists)
}

// IsBadRequest reports whether err maps to a 400.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrProductUnavailable) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrOrderNotCancellable)
}

// Map resolves an error to its HTTP status and stable application code.
// Unknown errors deliberately collapse to INTERNAL_ERROR so no detail leaks
// to the caller.
func Map(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"
	case errors.Is(err, ErrTokenExpiredOrRevoked):
		return http.StatusUnauthorized, "AUTH_TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "AUTH_TOKEN_INVALID"
	case errors.Is(err, ErrEmailExists), errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, "RESOURCE_ALREADY_EXISTS"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "RESOURCE_NOT_FOUND"
	case errors.Is(err, ErrProductUnavailable):
		return http.StatusBadRequest, "PRODUCT_UNAVAILABLE"
	case errors.Is(err, ErrInvalidStatusTransition):
		return http.StatusBadRequest, "ORDER_INVALID_STATUS_TRANSITION"
	case errors.Is(err, ErrOrderNotCancellable):
		return http.StatusBadRequest, "ORDER_NOT_CANCELLABLE"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
