package endpoint

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/vango-dev/city/pkg/location"
)

// RequestEvent is passed to every endpoint handler.
type RequestEvent struct {
	// Request is the incoming HTTP request.
	Request *http.Request

	// Params are the values captured by the route pattern.
	Params location.RouteParams

	// URL is the absolute request URL.
	URL *url.URL

	// ID uniquely identifies the request for logging and tracing.
	ID string

	// Route is the pattern source of the matched route (e.g. "/blog/[slug]").
	Route string

	method   Method
	response *Normalized
	values   map[any]any
}

// NewRequestEvent creates the event for a matched request.
// The request ID is taken from X-Request-ID when present.
func NewRequestEvent(r *http.Request, params location.RouteParams, route string) *RequestEvent {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	method, err := ParseMethod(r.Method)
	if err != nil {
		method = Method(r.Method)
	}
	return &RequestEvent{
		Request: r,
		Params:  params,
		URL:     location.RequestURL(r),
		ID:      id,
		Route:   route,
		method:  method,
	}
}

// Context returns the request context.
func (ev *RequestEvent) Context() context.Context {
	if ev.Request == nil {
		return context.Background()
	}
	return ev.Request.Context()
}

// Method returns the request method.
func (ev *RequestEvent) Method() Method {
	return ev.method
}

// Location returns the RouteLocation for the request.
func (ev *RequestEvent) Location() location.RouteLocation {
	return location.New(ev.URL, ev.Params)
}

// SetResponse records the normalized response produced by dispatch.
func (ev *RequestEvent) SetResponse(res *Normalized) {
	ev.response = res
}

// Response returns the normalized response, or nil before dispatch completes.
func (ev *RequestEvent) Response() *Normalized {
	return ev.response
}

// Status returns the response status, or 0 before dispatch completes.
func (ev *RequestEvent) Status() int {
	if ev.response == nil {
		return 0
	}
	return ev.response.Status
}

// SetValue stores a request-scoped value for middleware and handlers.
func (ev *RequestEvent) SetValue(key, value any) {
	if ev.values == nil {
		ev.values = make(map[any]any)
	}
	ev.values[key] = value
}

// Value returns a value stored with SetValue.
func (ev *RequestEvent) Value(key any) any {
	return ev.values[key]
}
