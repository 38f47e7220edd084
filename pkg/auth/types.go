package auth

import (
	"errors"
	"net/http"
	"slices"
	"time"
)

// ErrSessionExpired indicates the principal is no longer valid due to expiry.
var ErrSessionExpired = errors.New("session expired")

// Principal represents the authenticated identity.
// Intentionally minimal; there is no catch-all claims map.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	Roles    []string `json:"roles,omitempty"`
	TenantID string   `json:"tenant_id,omitempty"`

	// ExpiresAt is zero for principals that do not expire.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// HasRole reports whether p has role.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Expired reports whether p has expired at now.
func (p *Principal) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// Provider adapts an identity provider to city handlers.
type Provider interface {
	// Principal extracts the identity of r. It returns false for anonymous
	// requests and an error for credentials that are present but invalid.
	Principal(r *http.Request) (*Principal, bool, error)
}

// ProviderFunc is a function adapter for Provider.
type ProviderFunc func(r *http.Request) (*Principal, bool, error)

// Principal implements Provider.
func (f ProviderFunc) Principal(r *http.Request) (*Principal, bool, error) {
	return f(r)
}
