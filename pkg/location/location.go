// Package location describes the request-facing decomposition of a URL.
package location

import (
	"net/http"
	"net/url"
	"strings"
)

// RouteParams maps a parameter name to the value captured for a matched request.
type RouteParams map[string]string

// Get returns the value for name, or "" when absent.
func (p RouteParams) Get(name string) string {
	if p == nil {
		return ""
	}
	return p[name]
}

// Clone returns a copy of p. A nil receiver yields an empty, non-nil map.
func (p RouteParams) Clone() RouteParams {
	out := make(RouteParams, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RouteLocation is the URL decomposition handed to handlers and heads.
type RouteLocation struct {
	Hash     string            `json:"hash"`
	Hostname string            `json:"hostname"`
	Href     string            `json:"href"`
	Params   RouteParams       `json:"params"`
	Pathname string            `json:"pathname"`
	Search   string            `json:"search"`
	Query    map[string]string `json:"query"`
}

// New builds a RouteLocation from an absolute or relative URL.
// Search and Hash keep their leading "?" and "#"; Query holds the first
// value of each key.
func New(u *url.URL, params RouteParams) RouteLocation {
	loc := RouteLocation{
		Params: params.Clone(),
		Query:  map[string]string{},
	}
	if u == nil {
		loc.Pathname = "/"
		return loc
	}

	loc.Hostname = u.Hostname()
	loc.Href = u.String()
	loc.Pathname = u.EscapedPath()
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			loc.Query[key] = values[0]
		}
	}
	return loc
}

// FromRequest builds a RouteLocation for an incoming request, reconstructing
// the absolute URL from the Host header and the scheme the client used.
func FromRequest(r *http.Request, params RouteParams) RouteLocation {
	return New(RequestURL(r), params)
}

// RequestURL returns the absolute URL of r.
func RequestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = requestScheme(r)
	}
	return &u
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto, _, _ = strings.Cut(proto, ",")
		return strings.ToLower(strings.TrimSpace(proto))
	}
	return "http"
}
