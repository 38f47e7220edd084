package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// Method is an HTTP request method an endpoint can serve.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

// Methods lists every supported method.
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete,
	MethodHead, MethodOptions, MethodConnect, MethodTrace,
}

// ErrUnknownMethod is returned by ParseMethod for unsupported verbs.
var ErrUnknownMethod = errors.New("unknown HTTP method")

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Safe reports whether the method is read-only (GET or HEAD).
func (m Method) Safe() bool {
	return m == MethodGet || m == MethodHead
}
