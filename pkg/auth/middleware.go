package auth

import (
	"fmt"
	"time"

	"github.com/vango-dev/city/pkg/city"
	"github.com/vango-dev/city/pkg/endpoint"
)

// Authenticate returns middleware that resolves the request principal with
// p and stores it with Set. Anonymous requests continue without a user;
// invalid or expired credentials fail with ErrUnauthorized.
//
//	h := city.New(r, city.WithMiddleware(
//	    auth.Authenticate(bearerTokens),
//	    city.Only(isAdminRoute, auth.RequireRoles("admin")),
//	))
func Authenticate(p Provider) city.Middleware {
	return city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		principal, ok, err := p.Principal(ev.Request)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		if ok && principal != nil {
			if principal.Expired(time.Now()) {
				return fmt.Errorf("%w: %w", ErrUnauthorized, ErrSessionExpired)
			}
			Set(ev, principal)
		}
		return next()
	})
}

// RequireAuth is middleware that requires an authenticated user.
var RequireAuth city.Middleware = city.MiddlewareFunc(
	func(ev *endpoint.RequestEvent, next func() error) error {
		if !IsAuthenticated(ev) {
			return ErrUnauthorized
		}
		return next()
	},
)

// RequireRole returns middleware that requires a specific role.
// The check function receives the user and returns true if authorized.
//
// Usage:
//
//	auth.RequireRole(func(u *models.User) bool {
//	    return u.Role == "admin"
//	})
func RequireRole[T any](check func(T) bool) city.Middleware {
	return city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		user, ok := Get[T](ev)
		if !ok {
			return ErrUnauthorized
		}
		if !check(user) {
			return ErrForbidden
		}
		return next()
	})
}

// RequireRoles requires a Principal holding at least one of roles.
func RequireRoles(roles ...string) city.Middleware {
	checks := make([]func(*Principal) bool, len(roles))
	for i, role := range roles {
		checks[i] = func(p *Principal) bool { return p.HasRole(role) }
	}
	return RequireAny(checks...)
}

// RequirePermission is RequireRole under a name that reads better for
// permission checks.
//
//	auth.RequirePermission(func(u *models.User) bool {
//	    return u.Can("projects.delete")
//	})
func RequirePermission[T any](check func(T) bool) city.Middleware {
	return RequireRole(check)
}

// RequireAny returns middleware that requires at least one of the checks to pass.
func RequireAny[T any](checks ...func(T) bool) city.Middleware {
	return city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		user, ok := Get[T](ev)
		if !ok {
			return ErrUnauthorized
		}

		for _, check := range checks {
			if check(user) {
				return next()
			}
		}

		return ErrForbidden
	})
}

// RequireAll returns middleware that requires all checks to pass.
func RequireAll[T any](checks ...func(T) bool) city.Middleware {
	return city.MiddlewareFunc(func(ev *endpoint.RequestEvent, next func() error) error {
		user, ok := Get[T](ev)
		if !ok {
			return ErrUnauthorized
		}

		for _, check := range checks {
			if !check(user) {
				return ErrForbidden
			}
		}

		return next()
	})
}
