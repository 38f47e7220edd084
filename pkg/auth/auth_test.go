package auth_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vango-dev/city/pkg/auth"
	"github.com/vango-dev/city/pkg/endpoint"
)

type TestUser struct {
	ID string
}

func newEvent() *endpoint.RequestEvent {
	return endpoint.NewRequestEvent(httptest.NewRequest(http.MethodGet, "/", nil), nil, "/")
}

func TestGetAndSet(t *testing.T) {
	ev := newEvent()

	if _, ok := auth.Get[*TestUser](ev); ok {
		t.Fatal("expected no user on a fresh event")
	}
	if auth.IsAuthenticated(ev) {
		t.Fatal("expected unauthenticated")
	}

	auth.Set(ev, &TestUser{ID: "1"})
	user, ok := auth.Get[*TestUser](ev)
	if !ok || user.ID != "1" {
		t.Fatalf("Get() = %v, %v", user, ok)
	}
	if !auth.IsAuthenticated(ev) {
		t.Fatal("expected authenticated")
	}

	// Value vs pointer mismatch is not a match.
	if _, ok := auth.Get[TestUser](ev); ok {
		t.Fatal("expected type mismatch to report false")
	}

	auth.Clear(ev)
	if auth.IsAuthenticated(ev) {
		t.Fatal("expected Clear to remove the user")
	}
}

func TestRequire(t *testing.T) {
	ev := newEvent()
	if _, err := auth.Require[*TestUser](ev); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	auth.Set(ev, &TestUser{ID: "2"})
	user, err := auth.Require[*TestUser](ev)
	if err != nil || user.ID != "2" {
		t.Fatalf("Require() = %v, %v", user, err)
	}
}

func TestMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustGet to panic")
		}
	}()
	auth.MustGet[*TestUser](newEvent())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err    error
		status int
		ok     bool
	}{
		{nil, 0, false},
		{auth.ErrUnauthorized, http.StatusUnauthorized, true},
		{auth.ErrForbidden, http.StatusForbidden, true},
		{fmt.Errorf("wrapped: %w", auth.ErrForbidden), http.StatusForbidden, true},
		{errors.New("other"), 0, false},
	}

	for _, tt := range tests {
		status, ok := auth.StatusCode(tt.err)
		if status != tt.status || ok != tt.ok {
			t.Errorf("StatusCode(%v) = %d, %v; want %d, %v", tt.err, status, ok, tt.status, tt.ok)
		}
		if auth.IsAuthError(tt.err) != tt.ok {
			t.Errorf("IsAuthError(%v) = %v", tt.err, !tt.ok)
		}
	}

	// Dispatch maps the same errors through endpoint.StatusOf.
	if got := endpoint.StatusOf(fmt.Errorf("%w: bad token", auth.ErrUnauthorized)); got != http.StatusUnauthorized {
		t.Errorf("StatusOf(wrapped ErrUnauthorized) = %d", got)
	}
}
