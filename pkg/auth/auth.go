package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/vango-dev/city/pkg/endpoint"
)

// DebugMode enables extra validation and logging for development.
var DebugMode bool

// ErrUnauthorized is returned when authentication is required but not
// present. Dispatch answers it with 401.
var ErrUnauthorized error = endpoint.Error(http.StatusUnauthorized, "unauthorized: authentication required")

// ErrForbidden is returned when authentication is present but insufficient.
// Dispatch answers it with 403.
var ErrForbidden error = endpoint.Error(http.StatusForbidden, "forbidden: insufficient permissions")

// userKey is the RequestEvent value key of the authenticated user.
type userKey struct{}

// Set stores the authenticated user on the request event.
func Set[T any](ev *endpoint.RequestEvent, user T) {
	ev.SetValue(userKey{}, user)
}

// Clear removes the authenticated user from the request event.
func Clear(ev *endpoint.RequestEvent) {
	ev.SetValue(userKey{}, nil)
}

// Get retrieves the authenticated user from the request event.
//
// Returns (user, true) if authenticated, (zero, false) otherwise.
//
// In debug mode, logs a warning if a value exists but type assertion fails,
// helping developers catch common value/pointer mismatches.
//
// Example:
//
//	user, ok := auth.Get[*models.User](ev)
//	if !ok {
//	    // User not authenticated
//	}
func Get[T any](ev *endpoint.RequestEvent) (T, bool) {
	var zero T
	val := ev.Value(userKey{})
	if val == nil {
		return zero, false
	}

	if user, ok := val.(T); ok {
		return user, true
	}

	if DebugMode {
		requestedType := reflect.TypeOf((*T)(nil)).Elem()
		slog.Warn("city/auth: type mismatch",
			"stored_type", reflect.TypeOf(val),
			"requested_type", requestedType,
			"hint", "Did you store a struct (User) but request a pointer (*User)?",
		)
	}
	return zero, false
}

// Require returns the authenticated user or ErrUnauthorized.
//
// Example:
//
//	OnDelete: func(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
//	    user, err := auth.Require[*models.User](ev)
//	    if err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
func Require[T any](ev *endpoint.RequestEvent) (T, error) {
	user, ok := Get[T](ev)
	if !ok {
		return user, ErrUnauthorized
	}
	return user, nil
}

// MustGet returns the authenticated user and panics if there is none.
// Use it only behind RequireAuth.
func MustGet[T any](ev *endpoint.RequestEvent) T {
	user, ok := Get[T](ev)
	if !ok {
		panic("auth.MustGet: user not authenticated")
	}
	return user
}

// IsAuthenticated reports whether a user is set on the request event.
func IsAuthenticated(ev *endpoint.RequestEvent) bool {
	return ev.Value(userKey{}) != nil
}

// StatusCode returns the HTTP status for auth errors.
func StatusCode(err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, true
	default:
		return 0, false
	}
}

// IsAuthError reports whether err is ErrUnauthorized or ErrForbidden.
func IsAuthError(err error) bool {
	_, ok := StatusCode(err)
	return ok
}
